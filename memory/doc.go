// Package memory implements the Memory Bridge that pushes conversation turns
// and attendee facts to a durable memory provider and pulls them back as a
// digest once an attendee identity is bound.
//
// Provider implementations live here (InMemoryStore) and in sub-packages
// (sqlite). Callers depend on the Provider interface and pick a backend at
// wiring time.
package memory
