package blueprint

import "github.com/dmitrymomot/transitions/pkg/statemachine"

// FromType exports the machines visible on typ, sorted by name. Guard, callback
// and action names live only in code and are not exported, so guarded transitions
// must have their guards named before the blueprint can be applied.
func FromType(typ *statemachine.Type) *Blueprint {
	bp := &Blueprint{Type: typ.Name()}
	for _, m := range typ.Machines() {
		bp.Machines = append(bp.Machines, FromMachine(m))
	}
	return bp
}

// FromMachine exports one machine. States and events keep declaration order.
func FromMachine(m *statemachine.Machine) Machine {
	rv := Machine{Name: m.Name(), Initial: m.InitialState()}
	for _, s := range m.States() {
		rv.States = append(rv.States, State{Name: s.Name(), DisplayName: s.DisplayName()})
	}
	for _, e := range m.Events() {
		ev := Event{Name: e.Name(), Timestamp: e.Timestamped()}
		for _, t := range e.Transitions() {
			ev.Transitions = append(ev.Transitions, Transition{
				From:    t.From(),
				To:      t.To(),
				Guarded: t.Guarded(),
			})
		}
		rv.Events = append(rv.Events, ev)
	}
	return rv
}
