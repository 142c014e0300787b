// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command asyncoredemo drives the asyncore primitives from a terminal,
// for manual exploration; it is not part of the module's public
// contract.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asmsh/asyncore"
	"github.com/asmsh/asyncore/asyncorecfg"
	"github.com/asmsh/asyncore/asyncoremetrics"
)

var rootCmd = &cobra.Command{
	Use:   "asyncoredemo",
	Short: "Exercise the asyncore primitives from a terminal.",
}

var joinCmd = &cobra.Command{
	Use:   "join N",
	Short: "Join N concurrent thunks, each sleeping a short delay of up to 40ms, and print their results.",

	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		n := 0
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n <= 0 {
			cmd.PrintErrln("N must be a positive integer")
			os.Exit(1)
		}

		inputs := make([]*asyncore.Future[int], n)
		for i := range inputs {
			i := i
			inputs[i] = asyncore.Submit(asyncore.Default(), func() (int, error) {
				time.Sleep(time.Duration(i%5) * 10 * time.Millisecond)
				return i * i, nil
			})
		}

		joined := asyncore.Joined(inputs, asyncore.Default())
		res := joined.Wait()
		if !res.Ok() {
			cmd.PrintErrf("join failed: %s\n", res.Err())
			os.Exit(1)
		}
		cmd.Printf("joined %d results: %v\n", n, res.Val())

		snap := asyncoremetrics.Read()
		cmd.Printf("futures completed so far: %d\n", snap.FuturesCompleted)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Demonstrate CachedValue: two reads, an invalidate, then a third read.",

	Run: func(cmd *cobra.Command, args []string) {
		ctx := asyncore.NewExecutionContext()
		defer ctx.Destroy()

		calls := 0
		cached := asyncore.NewCachedValue(ctx, func(live *asyncore.ExecutionContext) (*asyncore.Future[int], error) {
			calls++
			return asyncore.Submit(live.Executor(), func() (int, error) {
				return calls, nil
			}), nil
		})

		first := cached.Value()
		second := cached.Value()
		cmd.Printf("first == second: %v\n", first == second)
		cmd.Printf("first value: %v\n", first.Wait())

		cached.Invalidate()
		third := cached.Value()
		cmd.Printf("first == third: %v\n", first == third)
		cmd.Printf("third value: %v\n", third.Wait())
	},
}

func main() {
	if _, err := asyncorecfg.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "asyncoredemo: failed to load config: %s\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(joinCmd, cacheCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
