package presenter

import (
	"time"

	"github.com/creditos/creditos-backend/config"
	credithandler "github.com/creditos/creditos-backend/internal/handler/credit"
	paymenthandler "github.com/creditos/creditos-backend/internal/handler/payment"
	private_handler "github.com/creditos/creditos-backend/internal/handler/private"
	"github.com/creditos/creditos-backend/internal/notifier"
	clientrepo "github.com/creditos/creditos-backend/internal/repository/client"
	creditrepo "github.com/creditos/creditos-backend/internal/repository/credit"
	notificationrepo "github.com/creditos/creditos-backend/internal/repository/notification"
	paymentrepo "github.com/creditos/creditos-backend/internal/repository/payment"
	userrepo "github.com/creditos/creditos-backend/internal/repository/user"
	"github.com/creditos/creditos-backend/internal/service"
	creditsrv "github.com/creditos/creditos-backend/internal/service/credit"
	paymentsrv "github.com/creditos/creditos-backend/internal/service/payment"
	privatesrv "github.com/creditos/creditos-backend/internal/service/private"
	remindersrv "github.com/creditos/creditos-backend/internal/service/reminder"
	"github.com/creditos/creditos-backend/pkg/email"
	"github.com/creditos/creditos-backend/pkg/telegram"
	"github.com/creditos/creditos-backend/pkg/telemetry"

	"gorm.io/gorm"
)

type Presenter struct {
	CreditPresenter  *credithandler.CreditHandler
	PaymentPresenter *paymenthandler.PaymentHandler
	PrivatePresenter *private_handler.PrivateHandler

	// ReminderService is exposed so the cron scheduler can run it.
	ReminderService service.ReminderServices
}

func NewPresenter(
	db *gorm.DB,
	cfg *config.Config,
	tel *telemetry.OpenTelemetry,
) Presenter {
	// Repository
	clientRepositoryMeter := tel.MeterProvider.Meter("client-repository-meter")
	clientRepositoryTracer := tel.TracerProvider.Tracer("client-repository-tracer")
	clientRepository := clientrepo.NewClientRepository(
		db,
		clientRepositoryMeter,
		clientRepositoryTracer,
		tel.Log,
	)

	creditRepository := creditrepo.NewCreditRepository(db)
	paymentRepository := paymentrepo.NewPaymentRepository(db)
	notificationRepository := notificationrepo.NewNotificationRepository(db)
	userRepository := userrepo.NewUserRepository(db)

	// Notification channel, picked by configuration.
	var channel notifier.Channel
	switch cfg.NOTIFY_CHANNEL {
	case "EMAIL":
		channel = notifier.NewEmailChannel(email.NewSender(
			cfg.SMTP_HOST,
			cfg.SMTP_PORT,
			cfg.SMTP_USERNAME,
			cfg.SMTP_PASSWORD,
			cfg.SMTP_FROM,
			tel.Log,
		))
	default:
		channel = notifier.NewTelegramChannel(telegram.NewClient(
			cfg.TELEGRAM_BOT_TOKEN,
			10*time.Second,
			tel.Log,
		))
	}
	dispatcher := notifier.NewDispatcher(channel, notificationRepository, tel.Log)

	// Service
	creditServiceMeter := tel.MeterProvider.Meter("credit-service-meter")
	creditServiceTracer := tel.TracerProvider.Tracer("credit-service-trace")
	creditService := creditsrv.NewCreditService(
		db,
		creditRepository,
		clientRepository,
		paymentRepository,
		notificationRepository,
		dispatcher,
		cfg.GLOBAL_INTEREST_RATE,
		creditServiceMeter,
		creditServiceTracer,
		tel.Log,
	)

	paymentServiceMeter := tel.MeterProvider.Meter("payment-service-meter")
	paymentServiceTracer := tel.TracerProvider.Tracer("payment-service-trace")
	paymentService := paymentsrv.NewPaymentService(
		db,
		dispatcher,
		paymentServiceMeter,
		paymentServiceTracer,
		tel.Log,
	)

	reminderService := remindersrv.NewReminderService(
		creditRepository,
		clientRepository,
		dispatcher,
		cfg.DUE_SOON_DAYS,
		tel.Log,
	)

	privateServiceMeter := tel.MeterProvider.Meter("private-service-meter")
	privateServiceTracer := tel.TracerProvider.Tracer("private-service-trace")
	privateService := privatesrv.NewPrivateService(
		db,
		cfg.JWT_SECRET_KEY,
		userRepository,
		privateServiceMeter,
		privateServiceTracer,
		tel.Log,
	)

	// Handler
	creditHandlerMeter := tel.MeterProvider.Meter("credit-handler-meter")
	creditHandlerTracer := tel.TracerProvider.Tracer("credit-handler-trace")
	creditHandler := credithandler.NewCreditHandler(
		creditService,
		creditHandlerMeter,
		creditHandlerTracer,
		tel.Log,
	)

	paymentHandlerMeter := tel.MeterProvider.Meter("payment-handler-meter")
	paymentHandlerTracer := tel.TracerProvider.Tracer("payment-handler-trace")
	paymentHandler := paymenthandler.NewPaymentHandler(
		paymentService,
		paymentHandlerMeter,
		paymentHandlerTracer,
		tel.Log,
	)

	privateHandlerMeter := tel.MeterProvider.Meter("private-handler-meter")
	privateHandlerTracer := tel.TracerProvider.Tracer("private-handler-trace")
	privateHandler := private_handler.NewPrivateHandler(
		privateService,
		privateHandlerMeter,
		privateHandlerTracer,
		tel.Log,
	)

	return Presenter{
		CreditPresenter:  creditHandler,
		PaymentPresenter: paymentHandler,
		PrivatePresenter: privateHandler,
		ReminderService:  reminderService,
	}
}
