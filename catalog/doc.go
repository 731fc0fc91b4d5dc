// Package catalog is an in-memory product and order catalog answered with
// the query engine. Search filters, sorts and pages products; the reports
// group, join and aggregate products and orders. Handler exposes both over
// HTTP.
//
// Every Store traversal can be logged, traced and measured by passing a
// query.Instrumentation through WithInstrumentation.
package catalog
