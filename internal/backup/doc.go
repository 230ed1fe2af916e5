// Package backup snapshots build artifacts so an aborted deploy can put
// the working tree back exactly as it was. Snapshots live under the
// state directory, named by uuid, and are removed once a run completes.
package backup
