package telemetry

import "sync/atomic"

// DetachReason beschreibt, warum eine Instanz ihre Daten kopiert hat.
type DetachReason int

const (
	// DetachOnWrite: eine geteilte Instanz wurde verändert oder hat einen Alias herausgegeben.
	DetachOnWrite DetachReason = iota
	// DetachOnCopy: die Quelle hatte einen veränderbaren Alias herausgegeben.
	DetachOnCopy
)

func (r DetachReason) String() string {
	switch r {
	case DetachOnWrite:
		return "write"
	case DetachOnCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// SharingStats ist eine Momentaufnahme der Copy-on-Write-Zähler.
type SharingStats struct {
	Shares        uint64
	LazyDetaches  uint64
	EagerDetaches uint64
	ClonedEntries uint64
}

// SharingMetrics zählt geteilte Kopien und Detaches.
type SharingMetrics struct {
	shares        atomic.Uint64
	lazyDetaches  atomic.Uint64
	eagerDetaches atomic.Uint64
	clonedEntries atomic.Uint64
}

var defaultSharingMetrics SharingMetrics

// DefaultSharingMetrics liefert die globalen Copy-on-Write-Metriken.
func DefaultSharingMetrics() *SharingMetrics {
	return &defaultSharingMetrics
}

// RecordShare zählt eine Kopie, die den Speicher teilt statt ihn zu kopieren.
func (m *SharingMetrics) RecordShare() {
	m.shares.Add(1)
}

// RecordDetach zählt einen Detach, der entries Einträge kopiert hat.
func (m *SharingMetrics) RecordDetach(reason DetachReason, entries int) {
	switch reason {
	case DetachOnCopy:
		m.eagerDetaches.Add(1)
	default:
		m.lazyDetaches.Add(1)
	}
	m.clonedEntries.Add(uint64(entries))
}

// Snapshot gibt die gesammelten Werte zurück.
func (m *SharingMetrics) Snapshot() SharingStats {
	return SharingStats{
		Shares:        m.shares.Load(),
		LazyDetaches:  m.lazyDetaches.Load(),
		EagerDetaches: m.eagerDetaches.Load(),
		ClonedEntries: m.clonedEntries.Load(),
	}
}

// Reset setzt alle Zähler zurück.
func (m *SharingMetrics) Reset() {
	m.shares.Store(0)
	m.lazyDetaches.Store(0)
	m.eagerDetaches.Store(0)
	m.clonedEntries.Store(0)
}
