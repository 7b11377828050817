// Package webcompare audits a website migration. It crawls an origin site,
// derives the matching target URL for every page it discovers, fetches
// both, and scores how similar each pair is using a set of comparators.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, bloom/).
package webcompare
