package rules

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/steprules/inst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTable(t *testing.T, src string) *inst.OpcodeTable {
	table, _, err := inst.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return table
}

func generateBoth(t *testing.T, table *inst.OpcodeTable) (nmos, cmos *Table) {
	nmos, err := Generate(table, false)
	require.NoError(t, err)
	cmos, err = Generate(table, true)
	require.NoError(t, err)
	return nmos, cmos
}

const sampleTable = `00;BRK;brk
01;ORA;X,ind
04;TSB;zpg;65C02
05;ORA;zpg
0A;ASL;A
0E;ASL;abs
0F;BBR0;bit_rel;65C02
10;BPL;rel
20;JSR;abs
40;RTI;rti
4C;JMP;abs
60;RTS;rts
6C;JMP;ind
7C;JMP;ind_abs,X;65C02
87;SMB0;bit_zpg;65C02
A9;LDA;#
B2;LDA;ind_zpg;65C02
BD;LDA;abs,X
EA;NOP;
`

func TestClassify(t *testing.T) {
	tests := []struct {
		mnemonic string
		mode     string
		rule     Rule
	}{
		{"NOP", "", OneByte},
		{"NOP", "imp", OneByte},
		{"ASL", "A", OneByte},
		{"LDA", "#", TwoBytes},
		{"LDA", "zpg", TwoBytes},
		{"LDA", "zpg,X", TwoBytes},
		{"LDX", "zpg,Y", TwoBytes},
		{"LDA", "X,ind", TwoBytes},
		{"LDA", "ind,Y", TwoBytes},
		{"LDA", "ind_zpg", TwoBytes},
		{"RMB0", "bit_zpg", TwoBytes},
		{"LDA", "abs", ThreeBytes},
		{"LDA", "abs,X", ThreeBytes},
		{"LDA", "abs,Y", ThreeBytes},
		{"XXX", "ill", Illegal},
		{"BNE", "rel", Branch},
		{"JMP", "ind", JumpIndirect},
		{"JSR", "jsr", Call},
		{"JSR", "abs", Call},
		{"jsr", "abs", Call},
		{"JMP", "jmp", Jump},
		{"JMP", "abs", Jump},
		{"RTS", "rts", Return},
		{"RTI", "rti", ReturnInterrupt},
		{"JMP", "ind_abs,X", JumpIndexedIndirect},
		{"JMP", "abs,X", JumpIndexedIndirect},
		{"BBS7", "bit_rel", BitBranch},
		{"BRK", "brk", Break},
	}

	for _, test := range tests {
		r := &inst.Record{Mnemonic: test.mnemonic, Mode: test.mode}
		rule, err := Classify(r)
		if assert.NoError(t, err, "%s %s", test.mnemonic, test.mode) {
			assert.Equal(t, test.rule, rule, "%s %s", test.mnemonic, test.mode)
		}
	}
}

func TestClassifyUnknownMode(t *testing.T) {
	_, err := Classify(&inst.Record{Mnemonic: "LDA", Mode: "abs,Z"})

	var merr *inst.UnknownAddressingModeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "abs,Z", merr.Token)
}

func TestForModeCoversAllModes(t *testing.T) {
	for _, m := range inst.Modes() {
		assert.NotPanics(t, func() { ForMode(m) }, "mode %v", m)
		assert.True(t, ForMode(m).Valid(), "mode %v", m)
	}
}

func TestGenerateSample(t *testing.T) {
	nmos, cmos := generateBoth(t, loadTable(t, sampleTable))

	tests := []struct {
		opcode byte
		nmos   Rule
		cmos   Rule
	}{
		{0x00, Break, Break},
		{0x01, TwoBytes, TwoBytes},
		{0x02, Illegal, Illegal},
		{0x04, Illegal, TwoBytes},
		{0x0a, OneByte, OneByte},
		{0x0f, Illegal, BitBranch},
		{0x10, Branch, Branch},
		{0x20, Call, Call},
		{0x40, ReturnInterrupt, ReturnInterrupt},
		{0x4c, Jump, Jump},
		{0x60, Return, Return},
		{0x6c, JumpIndirect, JumpIndirect},
		{0x7c, Illegal, JumpIndexedIndirect},
		{0x87, Illegal, TwoBytes},
		{0xa9, TwoBytes, TwoBytes},
		{0xb2, Illegal, TwoBytes},
		{0xbd, ThreeBytes, ThreeBytes},
		{0xea, OneByte, OneByte},
		{0xff, Illegal, Illegal},
	}

	for _, test := range tests {
		assert.Equal(t, test.nmos, nmos.Rule(test.opcode), "NMOS opcode $%02X", test.opcode)
		assert.Equal(t, test.cmos, cmos.Rule(test.opcode), "CMOS opcode $%02X", test.opcode)
	}

	assert.False(t, nmos.Extended)
	assert.True(t, cmos.Extended)
}

func TestGenerateExamples(t *testing.T) {
	nmos, cmos := generateBoth(t, loadTable(t, "20;JSR;abs\n02;NOP2;imp;65C02\n"))

	assert.Equal(t, Call, nmos.Rule(0x20))
	assert.Equal(t, Call, cmos.Rule(0x20))
	assert.Equal(t, Illegal, nmos.Rule(0x02))
	assert.Equal(t, OneByte, cmos.Rule(0x02))
}

func TestGenerateRulesInRange(t *testing.T) {
	nmos, cmos := generateBoth(t, loadTable(t, sampleTable))
	for _, tbl := range []*Table{nmos, cmos} {
		for i, r := range tbl.Rules {
			assert.True(t, r.Valid(), "opcode $%02X rule %d", i, r)
		}
	}
}

func TestGenerateEmptyTable(t *testing.T) {
	nmos, cmos := generateBoth(t, inst.NewOpcodeTable())
	for i := 0; i < 256; i++ {
		assert.Equal(t, Illegal, nmos.Rules[i])
		assert.Equal(t, Illegal, cmos.Rules[i])
	}
	packed := nmos.Packed()
	assert.Equal(t, bytes.Repeat([]byte{0x44}, PackedSize), packed[:])
}

func TestGenerateUnknownModeFails(t *testing.T) {
	table := loadTable(t, "A9;LDA;#\n12;ORA;(zp);65C02\n")

	// The NMOS pass never classifies 65C02-only opcodes.
	_, err := Generate(table, false)
	assert.NoError(t, err)

	tbl, err := Generate(table, true)
	assert.Nil(t, tbl)

	var merr *inst.UnknownAddressingModeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "(zp)", merr.Token)
	assert.Contains(t, err.Error(), "opcode $12")
}

func TestPack(t *testing.T) {
	nmos, cmos := generateBoth(t, loadTable(t, sampleTable))

	p := cmos.Packed()
	assert.Equal(t, byte(0x2d), p[0])  // BRK, ORA X,ind
	assert.Equal(t, byte(0x44), p[1])  // undefined, undefined
	assert.Equal(t, byte(0x22), p[2])  // TSB zpg, ORA zpg
	assert.Equal(t, byte(0xc3), p[7])  // ASL abs, BBR0
	assert.Equal(t, byte(0x47), p[16]) // JSR, undefined
	assert.Equal(t, byte(0x4b), p[62]) // JMP (abs,X), undefined

	p = nmos.Packed()
	assert.Equal(t, byte(0x24), p[2])
	assert.Equal(t, byte(0x43), p[7])
	assert.Equal(t, byte(0x44), p[62])
}

func TestPackInvertible(t *testing.T) {
	_, cmos := generateBoth(t, loadTable(t, sampleTable))
	packed := cmos.Packed()

	for i, b := range packed {
		assert.Equal(t, cmos.Rules[2*i], Rule(b&0x0f))
		assert.Equal(t, cmos.Rules[2*i+1], Rule(b>>4))
	}

	assert.Equal(t, cmos.Rules, Unpack(&packed))
	for i := 0; i < 256; i++ {
		assert.Equal(t, cmos.Rules[i], Lookup(&packed, byte(i)))
	}
}

func TestRuleLength(t *testing.T) {
	assert.Equal(t, 1, OneByte.Length())
	assert.Equal(t, 2, TwoBytes.Length())
	assert.Equal(t, 3, ThreeBytes.Length())
	assert.Equal(t, 0, Illegal.Length())
	assert.Equal(t, 3, Call.Length())
	assert.Equal(t, 0, Rule(0xe).Length())
	assert.False(t, Rule(0).Valid())
	assert.False(t, Rule(0xe).Valid())
	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "Rule(14)", Rule(0xe).String())
}
