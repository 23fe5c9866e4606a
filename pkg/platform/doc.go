// Package platform defines the boundary between diagram layouts and remote
// whiteboard platforms.
//
// A platform contributes two halves:
//
//   - a [Converter], which turns a graph and its layout into [ShapeSpec] and
//     [ConnectorSpec] values without doing any I/O
//   - a [Backend], which creates boards, shapes and connectors remotely
//
// Platforms are collected in a [Registry] that is built explicitly from
// configuration; there is no global registration. A platform may be
// declared with a converter but no backend, in which case it is listed as
// unconfigured and conversions against it fail.
//
// Implementations live in subpackages: miro (converter and REST backend)
// and lucid (converter only).
package platform
