// Package session is the editing layer between a user interface and a
// loaded trace set.
//
// # Overview
//
// A [Session] owns one [io.Project] and a cursor on the selected trace.
// Every operation that changes fold flags also runs the bridge reconciler,
// with the selected trace's persistent control-point placer, before it
// returns. Callers never see a graph whose COLLAPSED_FOLLOWS edges are out
// of date.
//
// # Usage
//
//	s, err := session.Open(ctx, "model.json", session.Options{})
//	if err != nil {
//	    return err
//	}
//	ch, err := s.Fold(ctx, "12")
//	...
//	err = s.Save(ctx, "model.gry")
//
// # Concurrency
//
// Session methods lock an internal mutex, so a TUI event loop and a
// background save may share a session. The graphs returned by [Session.Current]
// and [Session.Project] are not locked; read them from the goroutine that
// drives the session.
//
// # Observability
//
// Loads, fold changes, and bridge passes are reported through
// [observability.Session].
//
// [io.Project]: github.com/matzehuels/tracefold/pkg/io.Project
// [observability.Session]: github.com/matzehuels/tracefold/pkg/observability.Session
package session
