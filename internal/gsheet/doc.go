// Package gsheet is a thin client over the Google Sheets v4 API.
//
// It opens a worksheet by document URL and tab title, reads it as a
// highlight.Dataset, writes single columns, and applies background colors
// to row ranges in a single batchUpdate call.
package gsheet
