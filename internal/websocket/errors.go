package websocket

import "errors"

var (
	ErrClientQueueFull  = errors.New("client message queue is full")
	ErrConnectionClosed = errors.New("connection closed")
	ErrInvalidMessage   = errors.New("invalid message format")
	ErrUnknownEvent     = errors.New("unknown event")
	ErrNotIdentified    = errors.New("connection has no user identity")
	ErrNotClubMember    = errors.New("not a member of this club")
)

var protocolErrors = []error{
	ErrClientQueueFull, ErrConnectionClosed, ErrInvalidMessage,
	ErrUnknownEvent, ErrNotIdentified, ErrNotClubMember,
}

// clientMessage возвращает текст ошибки для клиента. Внутренние ошибки
// (хранилище, проверка членства) наружу не уходят.
func clientMessage(err error) string {
	for _, pe := range protocolErrors {
		if errors.Is(err, pe) {
			return pe.Error()
		}
	}
	return "internal error"
}
