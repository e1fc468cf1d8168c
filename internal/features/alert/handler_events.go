package alert

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/egyjs/order-management-backend-app/internal/eventengine"
	"github.com/egyjs/order-management-backend-app/internal/eventengine/event"
)

// subscriberName is the name of this event handler.
const subscriberName event.SubscriberName = "handler_event.alert"

const deliveryTimeout = 10 * time.Second

type HandlerEventsConfig struct {
	DoneCh        <-chan struct{}
	InternalSrvWG *sync.WaitGroup
	EventEngine   eventengine.SubscribeRegisterPublisher
	Sinks         []Sink
	AddressChSize uint16
}

type handlerEvents struct {
	*HandlerEventsConfig
	addressCh chan any
}

func NewHandlerEvents(cfg *HandlerEventsConfig) *handlerEvents {
	if cfg.AddressChSize == 0 {
		cfg.AddressChSize = 10
	}

	if cfg.DoneCh == nil || cfg.EventEngine == nil || len(cfg.Sinks) == 0 {
		log.Fatalf(
			"either 'DoneCh', 'EventEngine' or 'Sinks' is missing in '%s'",
			subscriberName,
		)
	}

	he := &handlerEvents{
		HandlerEventsConfig: cfg,
		addressCh:           make(chan any, cfg.AddressChSize),
	}

	// subscribe before listening so no published alert slips past
	he.addSubscription()

	he.InternalSrvWG.Add(1)
	go he.listen()

	return he
}

func (h *handlerEvents) listen() {
	defer h.InternalSrvWG.Done()

	log.Printf("%s is listening...\n", subscriberName)

	// a for select statement is not used here because the event engine will
	// close the addressCh on shutdown, after draining pending events
	for newEvent := range h.addressCh {
		switch ne := newEvent.(type) {
		case *event.StockRunningLowEvent:
			h.stockRunningLowEventHandler(ne)

		default:
			log.Printf(
				"received unknown event type: %T\n",
				ne,
			)
		}
	}

	log.Printf("shutting down %s\n", subscriberName)
}

// stockRunningLowEventHandler fans one alert out to every configured sink.
// Delivery failures are an operator concern only; the order that raised the
// alert has already been decided.
func (h *handlerEvents) stockRunningLowEventHandler(alert *event.StockRunningLowEvent) {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		deliveryTimeout,
	)
	defer cancel()

	for _, sink := range h.Sinks {
		if err := sink.Deliver(ctx, alert); err != nil {
			log.Printf(
				"failed to deliver low stock alert for ingredient %q: %v\n",
				alert.IngredientName,
				err,
			)
		}
	}
}

// addSubscription iterates over subscribeToEventNames and subscribes to each
// event with addressCh.
func (h *handlerEvents) addSubscription() {
	// subscribeToEventNames is an array of all events this subscriber
	// wants to Subscribe to.
	subscribeToEventNames := [1]event.EventName{
		event.StockRunningLowEventName,
	}

	for _, eventName := range subscribeToEventNames {
		err := h.EventEngine.Subscribe(
			eventName,
			&event.Subscriber{
				Name:      subscriberName,
				AddressCh: h.addressCh,
			},
		)
		if err != nil {
			log.Fatalf(
				"error subscribing to events in %s: %v\n",
				subscriberName,
				err,
			)
		}
	}
}
