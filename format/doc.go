// This file is part of rv32pipe.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package format implements the first pipeline stage: it verifies that
// each instruction's operands match its opcode's RV32I format class (U, I,
// S, J or B) and rewrites the operand list into the ordered bit-field
// sequence that, once concatenated, produces the 32-bit encoded word.
//
// Only instructions appearing while the current segment is named exactly
// "code" are verified and packed; instructions under any other segment
// name are passed through unchanged. This mirrors the reference
// implementation's behavior: a "data" segment holds raw byte or word
// literals that were never meant to go through instruction-format
// verification.
package format
