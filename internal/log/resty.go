package log

import "fmt"

// RestyLogger implements resty.Logger and routes the HTTP client's own messages into the default logger
type RestyLogger struct{}

func (RestyLogger) Errorf(format string, v ...any) {
	Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (RestyLogger) Warnf(format string, v ...any) {
	Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (RestyLogger) Debugf(format string, v ...any) {
	Debug(fmt.Sprintf(format, v...), "component", "resty")
}
