// Keep a Go function encrypted inside its own executable
//
// A program built with this package stores one function's machine code
// XORed with a key. At startup the code is ciphertext and must not be
// called. Given the right key the program makes the function's page
// writable, decrypts it in place and calls it. Encrypting does the reverse
// and then writes the mutated bytes back into the executable file, so the
// next run starts encrypted.
//
// This is a demonstration of self-modifying code, not a packer. The XOR
// transform is trivial to undo with a disassembler.
//
// Limitations:
//   - Only supports amd64 and arm64 ELF executables (Linux and FreeBSD)
//   - Relies on internal Go APIs that can break at any time
//   - Detects ciphertext by the Go stack-check prologue, so the protected
//     function must not be marked nosplit
//   - The protected function must not be inlined
package selfcrypt
