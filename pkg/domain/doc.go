/*
Package domain contains the core models shared by the actionkit builders, the
dispatcher and the rendering adapters.

It defines the declarative configuration of a controller action and the
descriptors the rendering layer consumes. This package is kept free of
routing and template concerns, following Hexagonal Architecture principles.

# Key Entities

  - ActionConfig: The frozen configuration of one action (service, view, permitted params, handlers).
  - FormatTable: Maps a negotiated response format to the callback that renders it.
  - StreamOp: One Turbo Stream instruction (append, replace, remove...).
  - FrameConfig: The single render target of a Turbo Frame request.
  - Context: What a response callback receives (service result, params, responder).
*/
package domain
