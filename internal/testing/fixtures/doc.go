// Package fixtures provides test data factories for EquiMind.
//
// # Factory Pattern
//
// Create a factory over a store:
//
//	f := fixtures.New(tdb.Store)
//
// # Creating Test Data
//
//	rider := f.CreateRider(t)                              // default rider
//	rider := f.CreateRider(t, fixtures.WithEmail("a@b.co"))
//	session := f.CreateSession(t, rider, fixtures.WithScore(7.5))
//	f.CreateEmotionAssessment(t, session, 8, 2)
//
// # Timestamps
//
// Factory.Now starts at a fixed instant and advances one minute per
// document, so "newest first" listings have a stable order.
package fixtures
