// Package collector provides the core functionality of this exporter.
//
// On a fixed interval it queries a UTXO-model node over json-rpc (each
// call wrapped in a bounded retry), maps the responses to gauge updates
// in a prometheus registry, and leaves serving that registry to
// `pkg/exporter` - a scrape never triggers a collection, and a failing
// node never takes the endpoint down.
//
package collector
