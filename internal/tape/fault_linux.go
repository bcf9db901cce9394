/*
 * Copyright 2025 bfkit Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:build linux && cgo && (amd64 || riscv64)

package tape

/*
#include <signal.h>
#include <stdint.h>
#include <string.h>
#include <unistd.h>

static volatile uintptr_t bf_tape_base = 0;
static volatile uintptr_t bf_tape_size = 0;
static struct sigaction   bf_prev_segv;

static const char bf_tape_msg[] = "Reached end of tape\n";

// Faults raised by generated code never reach the Go runtime's recovery
// path, so they are fielded here. Everything on the tape path is
// async-signal-safe: one range check, one write(2), one _exit(2).
// Anything else is forwarded to the handler that was installed before
// ours (the Go runtime's), which keeps ordinary Go fault panics working.
static void bf_segv_handler(int sig, siginfo_t *info, void *uctx) {
	uintptr_t addr = (uintptr_t)info->si_addr;
	uintptr_t base = bf_tape_base;

	if (base != 0 && addr >= base && addr < base + bf_tape_size) {
		ssize_t n = write(2, bf_tape_msg, sizeof(bf_tape_msg) - 1);
		(void)n;
		_exit(1);
	}

	if (bf_prev_segv.sa_flags & SA_SIGINFO) {
		bf_prev_segv.sa_sigaction(sig, info, uctx);
	} else if (bf_prev_segv.sa_handler != SIG_IGN && bf_prev_segv.sa_handler != SIG_DFL) {
		bf_prev_segv.sa_handler(sig);
	} else {
		// no previous handler: restore the default and return, the
		// faulting instruction re-executes and takes the default path
		sigaction(sig, &bf_prev_segv, 0);
	}
}

static int bf_install_handler(void) {
	struct sigaction sa;

	memset(&sa, 0, sizeof(sa));
	sa.sa_sigaction = bf_segv_handler;
	sa.sa_flags     = SA_SIGINFO | SA_ONSTACK;
	sigemptyset(&sa.sa_mask);

	if (sigaction(SIGSEGV, &sa, &bf_prev_segv) != 0) {
		return -1;
	}
	return sigaction(SIGBUS, &sa, 0);
}

static void bf_set_region(uintptr_t base, uintptr_t size) {
	bf_tape_base = base;
	bf_tape_size = size;
}
*/
import "C"

import (
	"fmt"
	"sync"
)

var (
	installOnce sync.Once
	installErr  error
)

// InstallFaultHandler registers the process-wide segmentation fault
// handler. One handler per process, installed once at startup; repeated
// calls are no-ops.
func InstallFaultHandler() error {
	installOnce.Do(func() {
		if C.bf_install_handler() != 0 {
			installErr = fmt.Errorf("tape: cannot install fault handler")
		}
	})
	return installErr
}

func publishRange(base uintptr, size uintptr) {
	C.bf_set_region(C.uintptr_t(base), C.uintptr_t(size))
}
