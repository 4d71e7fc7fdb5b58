// Package cpu implements the processor and assembler for the hexsim system.
//
// The processor has sixteen 32-bit signed registers (r0-r15), 256 cells of
// memory shared by code and data, and a program counter that starts at
// PC_START. Instruction words are 16 bits, stored as two memory cells, high
// byte first, and split into four nibbles: op, R, S, and T.
//
// Register and memory accesses are bounds checked. Faults from an executed
// instruction leave the machine unchanged and do not stop it; only a halt
// instruction, or a fetch past the end of memory, stops the processor.
//
// The assembler provides a small assembly language for the instruction set,
// supporting labels, equates, and compile-time expression evaluation.
package cpu
