package query

import "fmt"

// States lists distinct non-null hospital states.
func (b *Builder) States() Statement {
	return Statement{
		Name: "states",
		SQL: fmt.Sprintf(`
SELECT DISTINCT state
FROM %s
WHERE state IS NOT NULL
ORDER BY state`, b.hospital),
	}
}

// Cities lists distinct non-null cities, limited to state when it is non-empty.
func (b *Builder) Cities(state string) Statement {
	var a args
	where := "city IS NOT NULL"
	if state != "" {
		where += " AND state = " + a.add(state)
	}
	return Statement{
		Name: "cities",
		SQL: fmt.Sprintf(`
SELECT DISTINCT city
FROM %s
WHERE %s
ORDER BY city`, b.hospital, where),
		Args: a.vals,
	}
}

// Codes lists every service code with its description.
func (b *Builder) Codes() Statement {
	return Statement{
		Name: "codes",
		SQL: fmt.Sprintf(`
SELECT DISTINCT code, description
FROM %s
ORDER BY code`, b.serviceCode),
	}
}

// CodeDescription looks up the description of one code.
func (b *Builder) CodeDescription(code string) Statement {
	return Statement{
		Name: "code_description",
		SQL: fmt.Sprintf(`
SELECT description
FROM %s
WHERE code = $1
LIMIT 1`, b.serviceCode),
		Args: []any{code},
	}
}

// ZipsByCity lists the ZIP codes of hospitals in a city, matched
// case-insensitively. city must already be uppercased.
func (b *Builder) ZipsByCity(city string) Statement {
	return Statement{
		Name: "zips_by_city",
		SQL: fmt.Sprintf(`
SELECT DISTINCT zipcode
FROM %s
WHERE UPPER(city) = $1
  AND zipcode IS NOT NULL
ORDER BY zipcode`, b.hospital),
		Args: []any{city},
	}
}
