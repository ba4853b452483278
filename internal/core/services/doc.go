// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// All services share one StateManager, which owns the session and
// notifies observers after every mutation. Persistence is one such
// observer, registered by SessionService.
package services
