package eventengine

import (
	"fmt"
	"log"
	"sync"

	"github.com/egyjs/order-management-backend-app/internal/eventengine/event"
)

type Publisher interface {
	Publish(event *event.Event) error
}

type Subscriber interface {
	Subscribe(toEventName event.EventName, subscriber *event.Subscriber) error
}

type RegisterPublisher interface {
	Publisher
	RegisterEvents(eventNames ...event.EventName)
}

type SubscribeRegisterPublisher interface {
	Subscriber
	RegisterPublisher
}

type subscribers struct {
	names      []event.SubscriberName
	addressChs []chan<- any
}

type EventEngineConfig struct {
	DoneCh        <-chan struct{}
	InternalSrvWG *sync.WaitGroup
}

type eventEngine struct {
	*EventEngineConfig
	eventEngineCh chan *event.Event                // what the engine listens to for published events
	events        map[event.EventName]*subscribers // every registered event and whom to broadcast it to
}

// NewEventEngine starts the in-process pub/sub engine. Registration and
// subscription happen during server wiring, before any publish, so the
// events map is never written to concurrently.
func NewEventEngine(cfg *EventEngineConfig) SubscribeRegisterPublisher {
	if cfg == nil || cfg.DoneCh == nil || cfg.InternalSrvWG == nil {
		log.Fatalln("event engine config with DoneCh and InternalSrvWG is required")
	}

	e := &eventEngine{
		EventEngineConfig: cfg,
		eventEngineCh:     make(chan *event.Event, 20),
		events:            make(map[event.EventName]*subscribers, 20),
	}

	e.InternalSrvWG.Add(1)
	go e.listen()

	return e
}

func (e *eventEngine) listen() {
	defer e.InternalSrvWG.Done()

	log.Println("event engine is listening...")

	for {
		select {
		case <-e.DoneCh:
			// the server only signals DoneCh once every pending request has
			// finished, so no publisher is left to race the close.
			log.Println("event engine is shutting down, draining published events")
			close(e.eventEngineCh)
			for ev := range e.eventEngineCh {
				e.broadcast(ev)
			}

			e.shutdownSubscribersAddressCh()
			return

		case ev, isOpened := <-e.eventEngineCh:
			if !isOpened {
				return
			}

			e.broadcast(ev)
		}
	}
}

// broadcast fans an event's payload out to the addressCh of every subscriber
// of that event.
func (e *eventEngine) broadcast(ev *event.Event) {
	subs, exists := e.events[ev.Name]
	if !exists {
		log.Printf(
			"event %q is not registered. check the publishing service\n",
			ev.Name,
		)
		return
	}

	for i, addressCh := range subs.addressChs {
		if addressCh == nil {
			log.Printf(
				"subscriber %q has a nil addressCh. check its event handler\n",
				subs.names[i],
			)
			continue
		}

		addressCh <- ev.Payload
	}
}

// RegisterEvents adds all events a publisher can publish to the engine.
//
// IMPORTANT: register an event before anything publishes or subscribes to it.
func (e *eventEngine) RegisterEvents(eventNames ...event.EventName) {
	for _, eventName := range eventNames {
		if _, exists := e.events[eventName]; exists {
			continue
		}

		e.events[eventName] = &subscribers{}
	}

	log.Println("registered events:", eventNames)
}

func (e *eventEngine) Subscribe(toEventName event.EventName, newSubscriber *event.Subscriber) error {
	subs, ok := e.events[toEventName]
	if !ok {
		return fmt.Errorf(
			"event %q not found. the publishing service must call RegisterEvents before %q can subscribe to it",
			toEventName,
			newSubscriber.Name,
		)
	}

	subs.names = append(subs.names, newSubscriber.Name)
	subs.addressChs = append(subs.addressChs, newSubscriber.AddressCh)

	return nil
}

func (e *eventEngine) Publish(ev *event.Event) error {
	if _, exists := e.events[ev.Name]; !exists {
		return fmt.Errorf(
			"event %q not found. the publishing service must call RegisterEvents before publishing it",
			ev.Name,
		)
	}

	e.eventEngineCh <- ev

	return nil
}

// shutdownSubscribersAddressCh closes every subscriber's addressCh exactly
// once, even when one channel is subscribed to several events.
func (e *eventEngine) shutdownSubscribersAddressCh() {
	closed := make(map[chan<- any]struct{})

	for _, subs := range e.events {
		for _, addressCh := range subs.addressChs {
			if addressCh == nil {
				continue
			}

			if _, alreadyClosed := closed[addressCh]; alreadyClosed {
				continue
			}
			closed[addressCh] = struct{}{}

			close(addressCh)
		}
	}

	log.Println("subscribers addressChs are shut down")
}
