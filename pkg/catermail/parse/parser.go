package parse

// Parser orchestrates the full extraction flow:
// raw text → normalize → section extraction → classification → assembly.
type Parser struct {
	classifier *Classifier
	log        Logger
}

// NewParser creates a parser around the given classifier.
func NewParser(classifier *Classifier) *Parser {
	return &Parser{classifier: classifier, log: NopLogger}
}

// SetLogger directs parsing traces to log. The default discards them.
func (p *Parser) SetLogger(log Logger) {
	if log == nil {
		log = NopLogger
	}
	p.log = log
}

// Parse runs a raw message body through the whole pipeline. It always
// produces an Order; unrecognized formats yield one with sentinel fields and
// empty buckets rather than an error.
func (p *Parser) Parse(raw string) Order {
	text := Normalize(raw)

	customer := ParseCustomerBlock(ExtractCustomerBlock(text))
	p.log.Tracef("customer block parsed: name=%q email=%q", customer.Name, customer.Email)

	block := ExtractItemsBlock(text)
	if block == "" {
		p.log.Tracef("items header not found, producing best-effort order")
	}
	items := p.classifier.BuildItemsTraced(ItemLines(block), p.log)

	return Assemble(text, customer, items)
}
