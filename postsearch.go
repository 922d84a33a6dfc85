// Package postsearch synchronizes published content from external platforms
// (a Notion workspace, a Tistory blog) into a local searchable store and
// serves search queries that fall back to live web search when local
// coverage is insufficient, feeding web results back into the store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or source platform (e.g., sqlite/, notion/,
// tistory/).
package postsearch
