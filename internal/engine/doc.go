// Package engine orchestrates a product search end to end.
//
// The engine selects the providers eligible for a request, fans out to
// them concurrently under a bounded limit with a per-provider timeout
// slice, collects whatever offers survive, and hands them to the
// processing pipeline. Provider failures and timeouts are absorbed:
// the only way a search fails is an invalid request or cancellation of
// the caller's context.
package engine
