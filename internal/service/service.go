// Package service holds the business rules of every resource.
//
// Handlers pass in requests that already passed validation. Services
// decide what is allowed, compose repositories (inside a transaction where
// several rows must change together) and enqueue background work.
package service
