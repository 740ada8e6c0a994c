package cmd

import (
	"log/slog"

	httpin "geoshop/internal/adapters/in/http"
	"geoshop/internal/adapters/out/notification"
	"geoshop/internal/adapters/out/postgres"
	"geoshop/internal/adapters/out/storage"
	"geoshop/internal/core/application/usecases/commands"
	"geoshop/internal/core/application/usecases/queries"
	"geoshop/internal/core/domain/services"
	"geoshop/internal/core/ports"
	"geoshop/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use case handlers.
// Everything is constructed here; the rest of the code only sees interfaces.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	areaValidator services.AreaValidator
	pricer        services.Pricer
	notifier      ports.Notifier
	fileStorage   ports.FileStorage
	logger        *slog.Logger
}

// NewCompositionRoot builds the object graph. Fails if the file storage root
// is unusable; everything else is wired lazily per request.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	fileStorage, err := storage.NewFilesystemStorage(config.StorageRoot)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:        config,
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		areaValidator: services.NewAreaValidator(),
		pricer:        services.NewPricer(),
		notifier:      notification.NewSlogNotifier(logger),
		fileStorage:   fileStorage,
		logger:        logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeleteOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateSetOrderItemsCommandHandler() commands.SetOrderItemsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetOrderItemsCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmOrderCommandHandler(f, c.areaValidator, c.pricer,
		c.notifier, c.config.AdminEmail, c.logger)
}

func (c *CompositionRoot) CreateSetPriceCommandHandler() commands.SetPriceCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetPriceCommandHandler(f)
}

func (c *CompositionRoot) CreateQuoteDoneCommandHandler() commands.QuoteDoneCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewQuoteDoneCommandHandler(f)
}

func (c *CompositionRoot) CreateValidateOrderItemCommandHandler() commands.ValidateOrderItemCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewValidateOrderItemCommandHandler(f)
}

func (c *CompositionRoot) CreateStartExtractCommandHandler() commands.StartExtractCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartExtractCommandHandler(f)
}

func (c *CompositionRoot) CreateRecordExtractResultCommandHandler() commands.RecordExtractResultCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordExtractResultCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateArchiveOrdersCommandHandler() commands.ArchiveOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewArchiveOrdersCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetReadyOrdersQueryHandler() queries.GetReadyOrdersQueryHandler {
	return queries.NewGetReadyOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingExtractionsQueryHandler() queries.GetPendingExtractionsQueryHandler {
	return queries.NewGetPendingExtractionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderItemByTokenQueryHandler() queries.GetOrderItemByTokenQueryHandler {
	return queries.NewGetOrderItemByTokenQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDownloadQueryHandler() queries.GetDownloadQueryHandler {
	return queries.NewGetDownloadQueryHandler(c.gormDB, c.fileStorage)
}

// CreateHTTPServer assembles the HTTP server with every handler wired.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateSetOrderItemsCommandHandler(),
		c.CreateConfirmOrderCommandHandler(),
		c.CreateSetPriceCommandHandler(),
		c.CreateQuoteDoneCommandHandler(),
		c.CreateValidateOrderItemCommandHandler(),
		c.CreateStartExtractCommandHandler(),
		c.CreateRecordExtractResultCommandHandler(),
		c.CreateRejectOrderCommandHandler(),
		c.CreateGetReadyOrdersQueryHandler(),
		c.CreateGetPendingExtractionsQueryHandler(),
		c.CreateGetOrderItemByTokenQueryHandler(),
		c.CreateGetDownloadQueryHandler(),
	)
}

// CreateJobManager assembles the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateArchiveOrdersCommandHandler(),
		c.config.ArchivalSchedule,
		c.config.ArchivalRetention,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
