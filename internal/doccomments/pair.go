package doccomments

import (
	"strings"
)

// PairResult is the outcome of processing one .c/.i pair
type PairResult struct {
	CFile string
	IFile string
	// Moved lists the functions whose comment moved to the .i file
	Moved []Function
	// NewC and NewI are the rewritten file contents
	NewC string
	NewI string
}

// ProcessPair computes new contents for cfile and ifile. For every function
// declared in ifile without a doc comment whose definition in cfile has one,
// the comment is inserted above the declaration, preceded by a blank line,
// and removed from cfile. Nothing is written to disk.
func ProcessPair(cfile, ifile string) (*PairResult, error) {
	cfunctions, err := ParseFile(cfile)
	if err != nil {
		return nil, err
	}
	ifunctions, err := ParseFile(ifile)
	if err != nil {
		return nil, err
	}

	ilines, err := readLines(ifile)
	if err != nil {
		return nil, err
	}
	clines, err := readLines(cfile)
	if err != nil {
		return nil, err
	}

	result := &PairResult{CFile: cfile, IFile: ifile}

	var newI strings.Builder
	for _, line := range ilines {
		fn, ok := ParseFunction(line)
		if ok {
			ifn, _ := find(ifunctions, fn)
			if cfn, found := find(cfunctions, fn); found && cfn.Comment != "" && ifn.Comment == "" {
				result.Moved = append(result.Moved, fn)
				newI.WriteString("\n")
				newI.WriteString(cfn.Comment)
			}
		}
		newI.WriteString(line)
	}

	var newC strings.Builder
	var scanner commentScanner
	for _, line := range clines {
		consumed, comment := scanner.feed(line)
		if consumed {
			continue
		}
		if comment != "" {
			fn, ok := ParseFunction(line)
			if !ok {
				newC.WriteString(comment)
			} else if _, moved := find(result.Moved, fn); !moved {
				newC.WriteString(comment)
			}
		}
		newC.WriteString(line)
	}
	// A comment left open at end of file is kept as is
	newC.WriteString(scanner.flush())

	result.NewC = newC.String()
	result.NewI = newI.String()
	return result, nil
}
