package mahjong

import "fmt"

// GameError 牌局错误，按 Code 判等，errors.Is 可直接匹配下方哨兵值
type GameError struct {
	Code    string
	Message string
	Cause   error
	Context map[string]any
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

func NewGameError(code, message string) *GameError {
	return &GameError{Code: code, Message: message}
}

// WithCause 返回带原因的副本，不修改哨兵值
func (e *GameError) WithCause(cause error) *GameError {
	cp := e.clone()
	cp.Cause = cause
	return cp
}

// WithContext 返回带上下文的副本，不修改哨兵值
func (e *GameError) WithContext(key string, value any) *GameError {
	cp := e.clone()
	cp.Context[key] = value
	return cp
}

func (e *GameError) clone() *GameError {
	cp := &GameError{Code: e.Code, Message: e.Message, Cause: e.Cause, Context: make(map[string]any, len(e.Context)+1)}
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	return cp
}

var (
	ErrInvalidHandSize = NewGameError("INVALID_HAND_SIZE", "hand must hold exactly 14 tiles counting exposed tiles and declared quads")
	ErrInvalidTile     = NewGameError("INVALID_TILE", "tile value is not playable")
)
