// Package batch runs ordered lists of catalog operations and pairs each
// request with its outcome.
//
// Execution is strictly sequential: request i+1 is not started until
// request i has finished, and a failure at one position never stops the
// rest of the batch. Every request produces exactly one Result, in input
// order, so a batch of N requests always yields N results. Requests are
// neither reordered nor deduplicated; two requests for the same entry run
// twice.
//
// Per-position failures (unknown id, missing rollback, non-zero exit,
// launch failure) are recorded in the Result and are not returned as Go
// errors.
package batch
