package query

import (
	"fmt"
	"strings"
)

// ParseOptions adjusts how the parser resolves ambiguous input
type ParseOptions struct {
	// LongestOperatorMatch resolves the WHERE operator by leftmost position,
	// preferring two-character operators. When false the operators are tried
	// in the fixed order =, !=, >, <, >=, <=, LIKE and the first one found
	// anywhere in the condition wins.
	LongestOperatorMatch bool
}

// Parser parses SQL statements into Query values
type Parser struct {
	opts ParseOptions
}

// NewParser creates a new parser
func NewParser(opts ParseOptions) *Parser {
	return &Parser{opts: opts}
}

// Parse parses a statement with the default options
func Parse(statement string) (*Query, error) {
	return NewParser(ParseOptions{}).Parse(statement)
}

// ParseWithOptions parses a statement with the given options
func ParseWithOptions(statement string, opts ParseOptions) (*Query, error) {
	return NewParser(opts).Parse(statement)
}

// Parse parses: SELECT cols FROM table [WHERE cond] [ORDER BY col [ASC|DESC]]
//
// Keywords are matched case-insensitively. Every failure wraps
// ErrParseRejected and no Query is returned.
func (p *Parser) Parse(statement string) (*Query, error) {
	if strings.TrimSpace(statement) == "" {
		return nil, rejected(ErrEmptyStatement)
	}
	if err := ValidateQuery(statement); err != nil {
		return nil, rejected(err)
	}

	// upper shares byte offsets with statement; keywords are located in upper
	// and identifiers and values are sliced from statement.
	upper := upperASCII(statement)

	selectPos := strings.Index(upper, "SELECT")
	if selectPos < 0 {
		return nil, rejected(ErrNotSelect)
	}
	listStart := selectPos + len("SELECT")

	fromOffset := strings.Index(upper[listStart:], "FROM")
	if fromOffset < 0 {
		return nil, rejected(ErrMissingFrom)
	}
	fromPos := listStart + fromOffset
	rest := fromPos + len("FROM")

	q := NewQuery()

	columns, err := parseSelectList(statement[listStart:fromPos])
	if err != nil {
		return nil, rejected(err)
	}
	q.Columns = columns

	// ORDER BY, when present, ends the table name and the condition
	end := len(statement)
	if orderOffset := indexUnquoted(upper[rest:], "ORDER BY"); orderOffset >= 0 {
		end = rest + orderOffset
		if err := parseOrderBy(q, statement[end+len("ORDER BY"):]); err != nil {
			return nil, rejected(err)
		}
	}

	wherePos := -1
	if whereOffset := strings.Index(upper[rest:end], "WHERE"); whereOffset >= 0 {
		wherePos = rest + whereOffset
	}

	if wherePos < 0 {
		q.TableName = strings.TrimSpace(statement[rest:end])
		return q, nil
	}

	q.TableName = strings.TrimSpace(statement[rest:wherePos])

	condStart := wherePos + len("WHERE")
	cond, err := p.parseCondition(statement[condStart:end], upper[condStart:end])
	if err != nil {
		return nil, rejected(err)
	}
	q.Condition = cond

	return q, nil
}

// parseSelectList splits the projection segment on commas.
// A lone * resets the list to "all columns" and stops collection.
func parseSelectList(segment string) ([]string, error) {
	var columns []string

	for _, token := range strings.Split(segment, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == "*" {
			return nil, nil
		}
		if err := ValidateColumnName(token); err != nil {
			return nil, err
		}
		if len(columns) == MaxProjectionColumns {
			return nil, fmt.Errorf("%w: max %d", ErrTooManyColumns, MaxProjectionColumns)
		}
		columns = append(columns, token)
	}

	return columns, nil
}

// parseCondition parses the WHERE segment. It returns a nil condition when no
// operator is found.
func (p *Parser) parseCondition(text, upper string) (*Condition, error) {
	if strings.Contains(upper, " AND ") || strings.Contains(upper, " OR ") {
		return nil, ErrMultiplePredicates
	}

	var (
		match operatorMatch
		found bool
	)
	if p.opts.LongestOperatorMatch {
		match, found = scanOperatorLongest(upper)
	} else {
		match, found = scanOperatorOrdered(upper)
	}
	if !found {
		return nil, nil
	}

	column := strings.TrimSpace(text[:match.pos])
	if err := ValidateColumnName(column); err != nil {
		return nil, err
	}

	value := trimQuotes(strings.TrimSpace(text[match.pos+match.len:]))

	return &Condition{
		Column:   column,
		Operator: match.op,
		Value:    value,
	}, nil
}

// parseOrderBy parses the text after ORDER BY: <column> [ASC|DESC]
func parseOrderBy(q *Query, clause string) error {
	fields := strings.Fields(clause)

	switch len(fields) {
	case 1:
		q.SortDir = SortAscending
	case 2:
		switch strings.ToUpper(fields[1]) {
		case "ASC":
			q.SortDir = SortAscending
		case "DESC":
			q.SortDir = SortDescending
		default:
			return fmt.Errorf("%w: unknown direction %q", ErrInvalidOrderBy, fields[1])
		}
	case 0:
		return fmt.Errorf("%w: missing column", ErrInvalidOrderBy)
	default:
		return fmt.Errorf("%w: unexpected %q", ErrInvalidOrderBy, strings.Join(fields[2:], " "))
	}

	if err := ValidateColumnName(fields[0]); err != nil {
		return err
	}
	q.OrderBy = fields[0]
	return nil
}
