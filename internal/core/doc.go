// Package core provides the business logic behind the spreadsheet tools.
//
// This package holds all domain orchestration independent of any UI or
// transport layer. It is used by the web handlers and by the sheetkit CLI
// without modification.
//
// # Architecture
//
//   - Tool Registry: each tool (Highlight Rows, Detect Language) is described
//     by a [Tool] registered at init time.
//   - Pipelines: [RunHighlight] and [RunDetectLanguage] run a tool
//     synchronously as a sequence of named stages.
//   - Service: runs pipelines as background jobs, fans progress out to
//     subscribers and records finished runs in the history store.
//
// # Jobs
//
// The flow of a job is:
//
//  1. Client calls [Service.StartHighlight] or [Service.StartDetectLanguage]
//  2. The request waits for a slot in the [JobLimiter]
//  3. The pipeline runs in the background with its own timeout
//  4. Progress is broadcast to subscribers via [Service.SubscribeProgress]
//  5. The result stays available for the configured TTL, then is forgotten
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - COL001-COL002, RNG001, CLR001-CLR002: highlighting errors
//   - SHT001-SHT004: spreadsheet access errors
//   - AUTH001-AUTH003: sign-in and credential errors
//   - JOB001-JOB004, REQ001-REQ002: job and form errors
//   - FILE001-FILE003: upload errors
package core
