// Package integration contains the marketplace integration bounded context.
// It turns orders pushed by the Channable channel-management service into carts.
//
// Key concepts:
//   - OrderPayload: Value object holding an order as received from Channable
//   - Cart: Aggregate that collects reconciled line items and the session flags
//     consumed by downstream stock reservation
//   - Product / StockItem: Catalog records the importer resolves and may bypass
//   - StoreConfig: Per-store switches for tax, surcharge and stock behaviour
//   - ImportError: Structured failure of an import
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
