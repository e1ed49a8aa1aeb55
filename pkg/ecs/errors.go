package ecs

import "errors"

var (
	// Storage errors

	ErrOutOfRange             = errors.New("ecs: index out of range")
	ErrComponentNotRegistered = errors.New("ecs: component type not registered")
	ErrStoreTypeMismatch      = errors.New("ecs: component store has unexpected type")

	// Registration errors

	ErrComponentAlreadyRegistered = errors.New("ecs: component type already registered")
	ErrComponentNameTaken         = errors.New("ecs: component name already bound")
	ErrUnknownComponentName       = errors.New("ecs: unknown component name")

	// Entity errors

	ErrEntityNotAlive = errors.New("ecs: entity is not alive")

	// Scheduler and event errors

	ErrSystemPanic       = errors.New("ecs: system panicked")
	ErrEventArgsMismatch = errors.New("ecs: event arguments do not match subscriber")

	// Module errors

	ErrModuleLoad          = errors.New("ecs: module load failed")
	ErrModuleAlreadyLoaded = errors.New("ecs: module already loaded")
)
