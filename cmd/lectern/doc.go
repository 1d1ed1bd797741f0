// Command lectern processes lecture recordings into slide images paired
// with transcript windows, plus transcript exports and a reviewable card
// store.
package main
