// Package classify turns raw worksheet records into the three ordered album
// buckets the site renders: Currently Listening, Recently Added, and Recently
// Finished.
//
// Classification is a pure function of the records and the supplied clock
// value. Records with placeholder or unparseable timestamps silently stay out
// of the timestamp-driven buckets; that is worksheet convention, not an error.
package classify
