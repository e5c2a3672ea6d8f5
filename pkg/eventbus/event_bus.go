package eventbus

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventBus is the in-process publisher services emit domain events
// through. Handlers are plain functions; a published argument list is
// delivered to every subscriber whose signature it matches.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

type publisher struct {
	log      *logrus.Logger
	handlers []interface{}
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisher{log: log}
}

// MatchSignature reports whether a handler function can receive the
// published argument list. Interface parameters accept any implementing
// value; nil arguments only fit interface or pointer parameters.
func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			if param.Kind() != reflect.Interface && param.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if param.Kind() == reflect.Interface {
			if !argType.Implements(param) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(param) {
			return false
		}
	}
	return true
}

// Publish delivers the arguments to every matching subscriber. A
// panicking handler is logged and skipped; the remaining handlers still
// run. With no successful delivery the event is logged as dropped.
func (p *publisher) Publish(args ...interface{}) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	topic := ""
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			topic = s
		}
	}

	delivered := false
	for _, handler := range p.handlers {
		if !MatchSignature(handler, args) {
			continue
		}
		v := reflect.ValueOf(handler)
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.WithFields(logrus.Fields{
						"topic":   topic,
						"handler": v.Type().String(),
						"panic":   r,
					}).Error("event handler panicked")
				}
			}()
			v.Call(in)
			delivered = true
		}()
	}

	if !delivered && p.log != nil {
		p.log.WithField("topic", topic).Warn("event dropped, no matching subscribers")
	}
}

func (p *publisher) Subscribe(handler interface{}) {
	if reflect.TypeOf(handler).Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.handlers = append(p.handlers, handler)
}

func (p *publisher) Unsubscribe(handler interface{}) {
	target := reflect.ValueOf(handler).Pointer()
	for i, h := range p.handlers {
		if reflect.ValueOf(h).Pointer() == target {
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			return
		}
	}
}

func (p *publisher) Clear() {
	p.handlers = nil
}

func (p *publisher) SubscribersCount() int {
	return len(p.handlers)
}
