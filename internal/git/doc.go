// Package git provides Git operations via exec for the gpp CLI.
//
// A Client shells out to the git executable through an
// exec.CommandExecutor, so tests can swap in a MockExecutor and assert the
// exact arguments each operation issues.
//
//	client := git.New("")                 // current directory, real git
//	dirty, err := client.HasUncommittedChanges(ctx)
//	stashed, err := client.StashPush(ctx, "gpp move to feature-x")
//
// # Error Handling
//
// A failing git invocation returns an *output.ExitError whose code is git's
// own exit status and whose message is git's stderr, so callers can wrap it
// with context and the CLI still exits the way git did:
//
//	if err := client.Checkout(ctx, "master"); err != nil {
//	    return fmt.Errorf("switching to master: %w", err)
//	}
//
// A missing git binary is reported as output.ExitSystemError.
package git
