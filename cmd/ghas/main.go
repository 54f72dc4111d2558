// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	ghaserrors "github.com/sirseerhq/sirseer-ghas/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return mapErrorToExitCode(err)
	}
	return 0
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, ghaserrors.ErrInvalidToken) ||
		errors.Is(err, ghaserrors.ErrForbidden) ||
		errors.Is(err, ghaserrors.ErrEnterpriseNotFound) ||
		errors.Is(err, ghaserrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, ghaserrors.ErrNetworkFailure) || errors.Is(err, context.DeadlineExceeded) {
		return 3 // Network errors
	}

	return 1 // General error
}
