// Package sanitizer normalizes free-text booking input before validation and
// storage.
//
// All functions are idempotent. Invalid input is handled by returning the
// best-effort cleaned value rather than an error; validation decides whether
// the result is acceptable.
//
// Normalization includes:
//   - Free text: collapse runs of whitespace, trim leading/trailing spaces
//   - Phone numbers: E.164 (+[country][number]) using a default region for
//     numbers written without a country code
package sanitizer
