// Package backstage provides an offline knowledge-retrieval core for a
// venue assistant. It aggregates three sources - text extracted from the
// venue's technical reference document, a scraped events calendar, and a
// versioned specification catalog - into per-source indices, and answers
// free-text questions by routing them to the matching index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, pdf/) or the
// subsystem they implement (index/, calendar/, registry/, route/).
package backstage
