/*
Package ports defines the driven ports (interfaces) of the actionkit dispatcher.

These interfaces decouple action dispatch from concrete implementations,
allowing the same controller to run with different authentication schemes
and flash storage backends.

# Key Interfaces

  - Authenticator: Establishes who is calling before the service runs.
  - Authorizer: Decides whether the caller may run a given action.
  - FlashStore: Persists one-time messages between requests (memory or Redis).
*/
package ports
