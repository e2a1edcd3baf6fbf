package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventSystemRegisterAndFire(t *testing.T) {
	es := NewEventSystem()
	listener := &struct{}{}

	var got EventContext
	calls := 0
	handled := es.Register(EVENT_CODE_RIVER_SOURCES_CHANGED, listener, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		calls++
		got = data
		assert.Same(t, listener, inst)
		return true
	})
	assert.True(t, handled)

	var ctx EventContext
	ctx.Data.I32[0] = 3
	ctx.Data.I32[1] = 7
	assert.True(t, es.Fire(EVENT_CODE_RIVER_SOURCES_CHANGED, nil, ctx))
	assert.Equal(t, 1, calls)
	assert.Equal(t, int32(3), got.Data.I32[0])
	assert.Equal(t, int32(7), got.Data.I32[1])

	assert.False(t, es.Fire(EVENT_CODE_TEXTURES_GENERATED, nil, ctx))
}

func TestEventSystemDuplicateAndUnregister(t *testing.T) {
	es := NewEventSystem()
	listener := &struct{}{}
	cb := func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }

	assert.True(t, es.Register(EVENT_CODE_APPLICATION_QUIT, listener, cb))
	assert.False(t, es.Register(EVENT_CODE_APPLICATION_QUIT, listener, cb))
	assert.False(t, es.Register(MAX_EVENT_CODE+1, listener, cb))
	assert.False(t, es.Register(EVENT_CODE_APPLICATION_QUIT, &struct{}{}, nil))

	assert.True(t, es.Unregister(EVENT_CODE_APPLICATION_QUIT, listener))
	assert.False(t, es.Unregister(EVENT_CODE_APPLICATION_QUIT, listener))
}

func TestEventSystemHandledStopsPropagation(t *testing.T) {
	es := NewEventSystem()
	order := []string{}
	es.Register(EVENT_CODE_PARAMETERS_CHANGED, "first", func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		order = append(order, "first")
		return true
	})
	es.Register(EVENT_CODE_PARAMETERS_CHANGED, "second", func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		order = append(order, "second")
		return false
	})

	es.Fire(EVENT_CODE_PARAMETERS_CHANGED, nil, EventContext{})
	assert.Equal(t, []string{"first"}, order)

	assert.NoError(t, es.Shutdown())
	assert.False(t, es.Fire(EVENT_CODE_PARAMETERS_CHANGED, nil, EventContext{}))
}
