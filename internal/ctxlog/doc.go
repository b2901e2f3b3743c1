// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes to stdout through PrettyHandler. The level is read
// once at start-up from the BATCHWALK_LOG_LEVEL environment variable and can be
// changed later through LevelVar.
package ctxlog
