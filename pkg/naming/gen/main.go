// Command gen regenerates pkg/naming/zz_opcode_prefix.go from the opcode
// list below, the same bavard-templated-generation idiom the teacher uses
// for its field-element sources (pkg/util/field/internal/generator).
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

const copyrightHolder = "The Assassyn Authors"

type prefixEntry struct {
	Const  string
	Prefix string
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2026, "assassyn")

	entries := []prefixEntry{
		{"OpAdd", "add"},
		{"OpSub", "sub"},
		{"OpMul", "mul"},
		{"OpAnd", "and"},
		{"OpOr", "or"},
		{"OpXor", "xor"},
		{"OpShl", "shl"},
		{"OpShr", "shr"},
		{"OpSar", "sar"},
		{"OpLt", "lt"},
		{"OpLe", "le"},
		{"OpGt", "gt"},
		{"OpGe", "ge"},
		{"OpEq", "eq"},
		{"OpNe", "ne"},
		{"OpNot", "not"},
		{"OpNeg", "neg"},
		{"OpSlice", "slice"},
		{"OpConcat", "concat"},
		{"OpSelect", "sel"},
		{"OpSelect1Hot", "sel1h"},
		{"OpBitcast", "bitcast"},
		{"OpZExt", "zext"},
		{"OpSExt", "sext"},
		{"OpArrayRead", "rd"},
		{"OpArrayWrite", "wr"},
		{"OpFIFOPush", "push"},
		{"OpFIFOPop", "pop"},
		{"OpBind", "bind"},
		{"OpAsyncCall", "call"},
		{"OpLog", "log"},
		{"OpWireRead", "wread"},
		{"OpWireAssign", "wassign"},
		{"OpIntrinsic", "intr"},
		{"OpPureIntrinsic", "pintr"},
		{"OpFinish", "finish"},
		{"OpWaitUntil", "waitc"},
		{"OpExternalIntrinsic", "ext"},
		{"OpExternalOutputRead", "extrd"},
		{"OpPushPredicate", "pushp"},
		{"OpPopPredicate", "popp"},
	}

	cfg := struct {
		Comment string
		Entries []prefixEntry
	}{
		Comment: "// Code generated by pkg/naming/gen; DO NOT EDIT.",
		Entries: entries,
	}

	if err := bgen.Generate(cfg, "naming", "templates",
		bavard.Entry{
			File:      "../zz_opcode_prefix.go",
			Templates: []string{"opcode_prefix.go.tmpl"},
			BuildTag:  "",
		},
	); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
