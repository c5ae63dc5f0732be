// Package blueprint declares state machines from YAML documents.
//
// Guards, callbacks and actions are code, so a blueprint refers to them by name
// and Apply resolves the names through Funcs:
//
//	bp, err := blueprint.Parse(data)
//	if err != nil {
//		return err
//	}
//	err = bp.Apply(documentType, blueprint.Funcs{
//		Guards: map[string]statemachine.Guard{
//			"has_reviewer": statemachine.GuardOf(hasReviewer),
//		},
//	})
//
// FromType and Marshal go the other way and export declared machines.
package blueprint
