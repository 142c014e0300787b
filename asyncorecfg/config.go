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

// Package asyncorecfg reads process-wide tuning knobs (pool sizes for
// the bounded QoS executors, a main-queue capacity, a debug-logging
// flag) once from the environment, using env.Parse behind a sync.Once.
// The asyncore package does not import it: the executor presets and
// the logging hooks do not read these values.
package asyncorecfg

import (
	"sync"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the process-wide tuning surface for the executor presets.
// LoadConfig only parses it; nothing in this module applies it, so the
// Utility and Background presets keep their GOMAXPROCS-derived sizing
// whatever these fields hold.
type Config struct {
	// UtilityPoolSize is the suggested bound on concurrently running
	// Utility-QoS blocks. 0 means "use the library default".
	UtilityPoolSize int `env:"ASYNCORE_UTILITY_POOL_SIZE" envDefault:"0"`

	// BackgroundPoolSize is the suggested bound on concurrently running
	// Background-QoS blocks. 0 means "use the library default".
	BackgroundPoolSize int `env:"ASYNCORE_BACKGROUND_POOL_SIZE" envDefault:"0"`

	// MainQueueCapacity is unused by the library directly; it documents
	// the suggested buffer size for a caller wiring its own channel in
	// front of Main().
	MainQueueCapacity int `env:"ASYNCORE_MAIN_QUEUE_CAPACITY" envDefault:"64"`

	// DebugLog is a flag for debug-level structured logging of context
	// and executor lifecycle events. Nothing in this module reads it;
	// context logging is enabled only through WithLogger.
	DebugLog bool `env:"ASYNCORE_DEBUG_LOG" envDefault:"false"`
}

var (
	cfg     Config
	cfgErr  error
	cfgOnce sync.Once
)

// LoadConfig parses Config from the environment exactly once per
// process; later calls return the memoized result.
func LoadConfig() (Config, error) {
	cfgOnce.Do(func() {
		var c Config
		if err := env.Parse(&c); err != nil {
			cfgErr = err
			return
		}
		cfg = c
	})
	return cfg, cfgErr
}
