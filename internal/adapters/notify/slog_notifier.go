package notify

import (
	"context"
	"log/slog"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
)

// SlogNotifier dispatches status-change notifications as structured log
// events. It runs after the transition has committed and never feeds back
// into document state.
type SlogNotifier struct{}

// NewSlogNotifier creates the log-backed notification dispatcher.
func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

var _ portssvc.StatusNotifier = (*SlogNotifier)(nil)

// NotifyStatusChange implements portssvc.StatusNotifier.
func (n *SlogNotifier) NotifyStatusChange(ctx context.Context, doc domain.Document, from, to domain.DocumentStatus) {
	middleware.GetLoggerFromCtx(ctx).Info("Document status changed",
		slog.String("document_id", doc.DocumentID),
		slog.String("doc_type", string(doc.Type)),
		slog.String("doc_number", doc.Number),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}
