// Package errors provides structured errors for the character sheet core.
//
// Every layer returns *Error values carrying a Code so callers can decide how
// to report a failure without string matching:
//
//	err := errors.NotFound("character not found").
//	    WithMeta("character_id", id)
//
// Wrapping preserves the code of the innermost structured error:
//
//	if err := store.Put(ctx, char); err != nil {
//	    return errors.Wrap(err, "failed to save character")
//	}
//
// # Layer guidelines
//
// Stores (redis, firestore, local slot):
//   - return NotFound for missing records
//   - wrap driver errors; firestore gRPC statuses go through FromGRPCError
//
// Service:
//   - InvalidArgument for rejected input (e.g. malformed import payloads)
//   - remote failures are returned unchanged so the caller can notify the user
//   - local slot failures are logged and swallowed, never returned
//
// CLI:
//   - map the code to a process exit status with Code.ExitCode
package errors
