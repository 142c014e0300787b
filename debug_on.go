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

//go:build asyncore_debug

package asyncore

import "log/slog"

// onDoubleComplete logs a discarded second-or-later complete call. It
// never changes behavior: the call was already a no-op before this
// runs. Building with -tags asyncore_debug is meant for catching a
// caller that resolves the same Promise twice, which is a programming
// error even though the core silently tolerates it.
func onDoubleComplete(typeName string) {
	slog.Debug("asyncore: discarded a second completion", "type", typeName)
}
