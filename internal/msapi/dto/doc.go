// Package dto mirrors the JSON payloads of the vendor's download API.
//
// The vendor has no published contract; these shapes were observed from
// live responses. Two failure channels coexist: a legacy flat Errors
// list (whose first entry's Type code carries the ban sentinel) and the
// newer ValidationContainer. Both are surfaced so the classifier can
// apply its ordering.
package dto
