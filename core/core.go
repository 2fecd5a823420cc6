package core

import "github.com/hupe1980/attendeeguide/logging"

// scopedLogger stamps every entry with the correlation ids of one tool call
// so handler logs can be joined with the dispatcher's.
type scopedLogger struct {
	logger logging.Logger
	scope  []any
}

func newScopedLogger(l logging.Logger, sessionID, agentName, functionCallID string) *scopedLogger {
	scope := make([]any, 0, 6)
	if sessionID != "" {
		scope = append(scope, "session_id", sessionID)
	}
	if agentName != "" {
		scope = append(scope, "agent", agentName)
	}
	if functionCallID != "" {
		scope = append(scope, "function_call_id", functionCallID)
	}
	return &scopedLogger{logger: logging.OrNoOp(l), scope: scope}
}

// Logger returns the unscoped logger.
func (l *scopedLogger) Logger() logging.Logger { return l.logger }

func (l *scopedLogger) with(args []any) []any {
	if len(l.scope) == 0 {
		return args
	}
	out := make([]any, 0, len(l.scope)+len(args))
	return append(append(out, l.scope...), args...)
}

// LogDebug logs at debug level with the call scope attached.
func (l *scopedLogger) LogDebug(msg string, args ...any) { l.logger.Debug(msg, l.with(args)...) }

// LogInfo logs at info level with the call scope attached.
func (l *scopedLogger) LogInfo(msg string, args ...any) { l.logger.Info(msg, l.with(args)...) }

// LogWarn logs at warn level with the call scope attached.
func (l *scopedLogger) LogWarn(msg string, args ...any) { l.logger.Warn(msg, l.with(args)...) }

// LogError logs at error level with the call scope attached.
func (l *scopedLogger) LogError(msg string, args ...any) { l.logger.Error(msg, l.with(args)...) }
