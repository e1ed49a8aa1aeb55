// Package ecs is a small entity-component-system runtime.
//
// Components of each type live in a SparseArray indexed directly by entity
// index. A Registry owns one array per registered type, hands out entity
// ids (reusing killed ones, most recent first), runs systems in priority
// order and dispatches named events.
//
// Typical use:
//
//	r := ecs.NewRegistry()
//	ecs.MustRegisterComponent[Position](r)
//	ecs.MustRegisterComponent[Velocity](r)
//
//	e := r.SpawnEntity()
//	_, _ = ecs.AddComponent(r, e, Position{})
//	_, _ = ecs.AddComponent(r, e, Velocity{X: 1})
//
//	_ = ecs.AddSystem2(r, func(r *ecs.Registry, _ *ecs.EntityList, pos *ecs.SparseArray[Position], vel *ecs.SparseArray[Velocity]) error {
//		ecs.NewZip2(pos, vel).Each(func(_ ecs.Entity, p *Position, v *Velocity) {
//			p.X += v.X
//		})
//		return nil
//	}, ecs.WithPriority(10))
//
//	_ = r.RunSystems(nil)
//
// Everything on a Registry runs on the caller's goroutine; there is no
// locking. Modules built with -buildmode=plugin may export
//
//	func Entrypoint(r *ecs.Registry)
//
// and be loaded with LibEntrypoint or AllLibsEntrypoint.
package ecs
