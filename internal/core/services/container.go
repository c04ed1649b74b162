package services

import (
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repository dependencies.
func NewServiceContainer(
	docRepo portsrepo.DocumentRepositoryWithTx,
	counterRepo portsrepo.CounterRepositoryFacade,
	clientDir portsrepo.ClientDirectoryFacade,
	catalogDir portsrepo.CatalogDirectoryFacade,
	notifier portssvc.StatusNotifier,
) *portssvc.ServiceContainer {
	numbering := NewNumberingService(counterRepo)
	return &portssvc.ServiceContainer{
		Numbering: numbering,
		Document:  NewDocumentService(docRepo, clientDir, catalogDir, numbering, notifier),
		Payment:   NewPaymentService(docRepo, notifier),
	}
}
