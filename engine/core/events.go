package core

import "sync"

type EventContext struct {
	Data struct {
		I32 [4]int32
		U32 [4]uint32
		F32 [4]float32

		C [4]string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// The planet parameter file changed on disk.
	/* Context usage:
	 * string path = data.Data.C[0];
	 */
	EVENT_CODE_PARAMETERS_CHANGED SystemEventCode = 0x02

	// A river source was toggled or the source set was cleared.
	/* Context usage:
	 * i32 x = data.Data.I32[0];
	 * i32 y = data.Data.I32[1];
	 * u32 source_count = data.Data.U32[0];
	 */
	EVENT_CODE_RIVER_SOURCES_CHANGED SystemEventCode = 0x03

	// Height, normal and rivers textures were regenerated.
	/* Context usage:
	 * u32 resolution = data.Data.U32[0];
	 */
	EVENT_CODE_TEXTURES_GENERATED SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

// EventSystem dispatches events synchronously on the calling goroutine.
type EventSystem struct {
	mutex      sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

func (es *EventSystem) Shutdown() error {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	for code := range es.registered {
		delete(es.registered, code)
	}
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code > MAX_EVENT_CODE || onEvent == nil {
		return false
	}
	es.mutex.Lock()
	defer es.mutex.Unlock()
	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	es.mutex.RLock()
	events := append([]*registeredEvent(nil), es.registered[code]...)
	es.mutex.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
