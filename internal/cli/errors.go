package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// PrintError 输出面向用户的错误提示，下一行附带技术细节
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	title := color.New(color.FgRed, color.Bold)
	detail := color.New(color.FgHiBlack)

	title.Fprint(w, "Erro: ")
	fmt.Fprintln(w, lessonplan.UserMessage(err))
	detail.Fprintf(w, "  %v\n", err)
}
