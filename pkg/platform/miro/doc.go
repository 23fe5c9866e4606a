// Package miro implements the Miro whiteboard platform.
//
// [Converter] maps a layout to Miro shapes and connectors: rectangles,
// rounded rectangles, rhombuses for decisions and circles, placed at the
// layout centre plus a fixed origin offset. [Backend] creates them through
// the Miro REST API v2 with a bearer token:
//
//	POST /boards
//	POST /boards/{id}/shapes
//	POST /boards/{id}/connectors
//	GET  /boards?limit=1   (connection check)
package miro
