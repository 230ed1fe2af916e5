// Package sheet models the worksheet rows the pipeline consumes and the
// sources that supply them.
//
// The Google Sheets source authenticates with a service-account credential
// through the values API; a CSV source with the same header contract exists
// for tests and offline builds. Row filtering matches the worksheet's
// long-standing conventions: entries without a Music cell or without at least
// one streaming link never enter the pipeline.
package sheet
