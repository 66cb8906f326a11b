package lessonplan

import (
	"context"
	"errors"
)

// 面向用户的提示信息（pt-BR），每一类错误对应一条
const (
	msgGeneric      = "Ocorreu um erro ao gerar o plano de aula. Por favor, tente novamente."
	msgSafety       = "A solicitação foi bloqueada por questões de segurança. Tente reformular o conteúdo."
	msgRateLimit    = "Limite de requisições atingido. Por favor, aguarde um momento antes de tentar novamente."
	msgMalformed    = "Erro ao processar a resposta da IA. O formato do JSON retornado é inválido."
	msgPrecondition = "Template de impressão não encontrado."
	msgExport       = "Ocorreu um erro ao exportar o plano de aula. Tente outro formato."
	msgBusy         = "Já existe uma exportação em andamento. Aguarde a conclusão."
	msgBackend      = "Esta funcionalidade requer um backend (ex: Google Cloud Function) para funcionar."
	msgSuperseded   = "A geração foi substituída por uma nova solicitação."
	msgCancelled    = "A geração foi cancelada."
	msgUnknown      = "Ocorreu um erro desconhecido."
)

// UserMessage 将任意错误转换为面向用户的一条提示
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrExportInProgress):
		return msgBusy
	case errors.Is(err, ErrBackendRequired):
		return msgBackend
	case errors.Is(err, ErrSuperseded):
		return msgSuperseded
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return msgCancelled
	}

	var e *Error
	if !errors.As(err, &e) {
		return msgUnknown
	}
	switch e.Kind {
	case KindTransport:
		switch e.Code {
		case CodeSafetyBlocked:
			return msgSafety
		case CodeRateLimited:
			return msgRateLimit
		}
		return msgGeneric
	case KindMalformedResponse:
		return msgMalformed
	case KindRenderPrecondition:
		return msgPrecondition
	case KindExport:
		return msgExport
	}
	return msgUnknown
}
