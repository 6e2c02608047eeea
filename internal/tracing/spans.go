package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanCommit = "history.commit"
	SpanSettle = "history.settle"
	SpanUndo   = "history.undo"
	SpanRedo   = "history.redo"
	SpanSave   = "outline.save"
	SpanLoad   = "outline.load"
)

// Attribute keys.
const (
	AttrCommandName = "command.name"
	AttrBoardIndex  = "board.index"
	AttrStage       = "stage"
	AttrAccepted    = "staged.accepted"
	AttrPath        = "document.path"
	AttrBoards      = "document.boards"
	AttrBytes       = "document.bytes"
)

// CommandAttrs are the attributes every history span carries.
func CommandAttrs(name string, boardIndex int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrCommandName, name),
		attribute.Int(AttrBoardIndex, boardIndex),
	}
}

// Finish records err on span, if any, and ends it.
func Finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
