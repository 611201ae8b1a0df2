package errors

import "go.uber.org/zap"

// ZapHandler logs reported errors through a zap logger.
// It is the default handler installed by core.NewRuntime.
type ZapHandler struct {
	// Verbose enables stack traces on authoring and render reports.
	Verbose bool

	log *zap.Logger
}

// NewZapHandler creates a handler backed by the given logger.
// A nil logger falls back to zap's production configuration.
func NewZapHandler(log *zap.Logger) *ZapHandler {
	if log == nil {
		log, _ = zap.NewProduction()
	}
	return &ZapHandler{log: log}
}

// HandleAuthoring logs an authoring contract violation.
func (h *ZapHandler) HandleAuthoring(err *AuthoringError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("component", err.Component),
		zap.Int("slot", err.Slot),
		zap.String("want", err.Want),
		zap.String("got", err.Got),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log.Error("hook order violation", fields...)
}

// HandleLayout logs a layout resolution warning.
func (h *ZapHandler) HandleLayout(err *LayoutError) {
	if err == nil {
		return
	}
	h.log.Warn("layout fallback",
		zap.String("dimension", err.Dimension),
		zap.Float64("percent", err.Percent),
	)
}

// HandleRender logs a failed component render.
func (h *ZapHandler) HandleRender(err *RenderError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.String("component", err.Component)}
	if err.Recovered != nil {
		fields = append(fields, zap.Any("recovered", err.Recovered))
	}
	if err.Err != nil {
		fields = append(fields, zap.Error(err.Err))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log.Error("render failed", fields...)
}

// HandleResource logs a host scene-object allocation failure.
func (h *ZapHandler) HandleResource(err *ResourceError) {
	if err == nil {
		return
	}
	h.log.Error("scene object allocation failed",
		zap.String("kind", err.Kind),
		zap.Error(err.Err),
	)
}
