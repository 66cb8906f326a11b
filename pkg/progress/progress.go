package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
)

// Display 在终端单行显示生成进度：百分比、进度条和当前阶段
type Display struct {
	mu sync.Mutex

	// 进度信息
	percent        int       // 0-100
	phase          string    // 当前阶段标签
	startTime      time.Time // 开始时间
	lastUpdateTime time.Time // 最后更新时间
	updates        int       // 收到的更新次数

	writer          io.Writer     // 输出写入器
	refreshInterval time.Duration // 刷新间隔
	isActive        bool          // 是否处于活动状态
	isDone          bool          // 是否已完成
	stopCh          chan struct{}

	// 渲染相关
	barWidth      int    // 进度条宽度
	lineWidth     int    // 整行最大显示宽度，0 表示不限制
	completedChar string // 已完成部分的字符
	remainingChar string // 未完成部分的字符
	leftBracket   string // 左括号
	rightBracket  string // 右括号

	// 颜色设置
	percentColor text.Colors
	barColor     text.Colors
	phaseColor   text.Colors
	timeColor    text.Colors
	messageColor text.Colors

	// 显示选项
	showPercent bool
	showBar     bool
	showPhase   bool
	showTime    bool

	message string
}

// Option 定义进度显示的选项
type Option func(*Display)

// NewDisplay 创建进度显示
func NewDisplay(options ...Option) *Display {
	now := time.Now()
	d := &Display{
		startTime:       now,
		lastUpdateTime:  now,
		writer:          os.Stderr,
		refreshInterval: time.Second,
		barWidth:        30,
		lineWidth:       100,
		completedChar:   "█",
		remainingChar:   "░",
		leftBracket:     "[",
		rightBracket:    "]",
		percentColor:    text.Colors{text.FgHiWhite},
		barColor:        text.Colors{text.FgGreen},
		phaseColor:      text.Colors{text.FgCyan},
		timeColor:       text.Colors{text.FgHiBlack},
		messageColor:    text.Colors{text.FgWhite},
		showPercent:     true,
		showBar:         true,
		showPhase:       true,
		showTime:        true,
		message:         "Gerando",
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// WithWriter 设置输出写入器
func WithWriter(writer io.Writer) Option {
	return func(d *Display) {
		d.writer = writer
	}
}

// WithRefreshInterval 设置刷新间隔
func WithRefreshInterval(interval time.Duration) Option {
	return func(d *Display) {
		d.refreshInterval = interval
	}
}

// WithBarStyle 设置进度条样式
func WithBarStyle(width int, completedChar, remainingChar, leftBracket, rightBracket string) Option {
	return func(d *Display) {
		d.barWidth = width
		d.completedChar = completedChar
		d.remainingChar = remainingChar
		d.leftBracket = leftBracket
		d.rightBracket = rightBracket
	}
}

// WithLineWidth 设置整行最大显示宽度
func WithLineWidth(width int) Option {
	return func(d *Display) {
		d.lineWidth = width
	}
}

// WithMessage 设置前缀消息
func WithMessage(message string) Option {
	return func(d *Display) {
		d.message = message
	}
}

// WithColors 设置颜色
func WithColors(percent, bar, phase, timeColor, message text.Colors) Option {
	return func(d *Display) {
		d.percentColor = percent
		d.barColor = bar
		d.phaseColor = phase
		d.timeColor = timeColor
		d.messageColor = message
	}
}

// WithVisibility 设置显示选项
func WithVisibility(showPercent, showBar, showPhase, showTime bool) Option {
	return func(d *Display) {
		d.showPercent = showPercent
		d.showBar = showBar
		d.showPhase = showPhase
		d.showTime = showTime
	}
}

// Start 开始显示并启动定时刷新
func (d *Display) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isActive {
		return
	}
	d.isActive = true
	d.isDone = false
	d.startTime = time.Now()
	d.lastUpdateTime = d.startTime
	d.stopCh = make(chan struct{})

	d.render()
	if d.refreshInterval > 0 {
		go d.refreshLoop(d.stopCh)
	}
}

// refreshLoop 定时刷新用时
func (d *Display) refreshLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(d.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.mu.Lock()
			if d.isActive && time.Since(d.lastUpdateTime) > d.refreshInterval/2 {
				d.render()
			}
			d.mu.Unlock()
		}
	}
}

// Update 更新百分比和阶段；百分比只增不减，已完成后忽略
func (d *Display) Update(percent int, phase string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isActive || d.isDone {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent > d.percent {
		d.percent = percent
	}
	if phase != "" {
		d.phase = phase
	}
	d.updates++
	d.lastUpdateTime = time.Now()
	if d.percent >= 100 {
		d.isDone = true
	}
	d.render()
}

// Stop 停止显示
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isActive {
		return
	}
	d.isActive = false
	close(d.stopCh)
	d.render()
	fmt.Fprintln(d.writer)
}

// Done 标记完成，并在提供摘要时输出摘要表格
func (d *Display) Done(summary *Summary) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isActive {
		d.isActive = false
		close(d.stopCh)
	}
	d.isDone = true
	d.percent = 100
	d.render()
	fmt.Fprintln(d.writer)

	if summary != nil {
		d.renderSummaryTable(summary)
	}
}

// Percent 返回当前百分比
func (d *Display) Percent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.percent
}

// Phase 返回当前阶段
func (d *Display) Phase() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// IsDone 检查是否已完成
func (d *Display) IsDone() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isDone
}

// GetElapsedTime 获取已经过的时间
func (d *Display) GetElapsedTime() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Since(d.startTime)
}

// render 渲染进度行，调用方持有锁
func (d *Display) render() {
	if d.writer == nil {
		return
	}
	var b strings.Builder
	b.WriteString("\x1b[K\r")
	b.WriteString(d.line())
	fmt.Fprint(d.writer, b.String())
}

// line 构建不含控制字符的进度行
func (d *Display) line() string {
	var parts []string

	if d.message != "" {
		parts = append(parts, d.messageColor.Sprint(d.message+":"))
	}
	if d.showPercent {
		parts = append(parts, d.percentColor.Sprint(fmt.Sprintf("%3d%%", d.percent)))
	}
	if d.showBar && d.barWidth > 0 {
		done := d.barWidth * d.percent / 100
		if done > d.barWidth {
			done = d.barWidth
		}
		bar := d.leftBracket +
			d.barColor.Sprint(strings.Repeat(d.completedChar, done)) +
			strings.Repeat(d.remainingChar, d.barWidth-done) +
			d.rightBracket
		parts = append(parts, bar)
	}
	if d.showTime {
		parts = append(parts, d.timeColor.Sprint(formatDuration(time.Since(d.startTime))))
	}
	if d.showPhase && d.phase != "" {
		phase := d.phase
		if d.lineWidth > 0 {
			used := 0
			for _, p := range parts {
				used += text.RuneWidthWithoutEscSequences(p) + 1
			}
			if avail := d.lineWidth - used; avail > 0 {
				phase = runewidth.Truncate(phase, avail, "…")
			} else {
				phase = ""
			}
		}
		if phase != "" {
			parts = append(parts, d.phaseColor.Sprint(phase))
		}
	}
	return strings.Join(parts, " ")
}

// formatDuration 格式化时间间隔
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", h, m, s)
}

// Summary 生成完成后输出的摘要
type Summary struct {
	Title       string
	Source      string
	Stages      int
	DurationMin int
	Lessons     int
	TotalTime   time.Duration
	Files       []string
}

// renderSummaryTable 渲染摘要表格
func (d *Display) renderSummaryTable(s *Summary) {
	if d.writer == nil || s == nil {
		return
	}
	RenderSummary(d.writer, s)
}

// RenderSummary 将摘要以表格形式写入 w
func RenderSummary(w io.Writer, s *Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	tw.AppendHeader(table.Row{"Item", "Valor"})
	tw.AppendRow(table.Row{"Título", s.Title})
	if s.Source != "" {
		tw.AppendRow(table.Row{"Fonte", s.Source})
	}
	tw.AppendRow(table.Row{"Duração", fmt.Sprintf("%d min (%d aulas)", s.DurationMin, s.Lessons)})
	tw.AppendRow(table.Row{"Etapas", s.Stages})
	if s.TotalTime > 0 {
		tw.AppendRow(table.Row{"Tempo total", formatDuration(s.TotalTime)})
	}
	for i, f := range s.Files {
		label := ""
		if i == 0 {
			label = "Arquivos"
		}
		tw.AppendRow(table.Row{label, f})
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()
}
