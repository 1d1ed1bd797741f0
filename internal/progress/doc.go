// Package progress carries pipeline progress events to interested
// consumers without ever blocking the producing stage.
package progress
