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

// Package ilfile parses and re-serializes the line-oriented intermediate
// language shared by every stage of the pipeline.
//
// A line is exactly one of: empty (blank or pure comment), a segment
// header ("== name" or "== name base"), a label ("identifier:") or an
// instruction (a sequence of whitespace-separated parts). A part is a
// head — either a hexadecimal integer literal or a symbolic reference to
// a label, optionally sliced as "label[hi:lo]" — followed by zero or more
// "/"-separated tags.
//
// Fields within a line are separated by any run of space, tab, '.' or
// newline; '.' is accepted purely so that hand-written listings can align
// columns without literal tabs. Everything from the first '#' to the end
// of the line is a comment and is preserved verbatim across stages that
// do not otherwise rewrite the line.
//
// Stages that leave a line's meaning untouched re-emit it from the
// original raw text; only stages that rewrite a line's Parts re-serialize
// it from structured fields.
package ilfile
