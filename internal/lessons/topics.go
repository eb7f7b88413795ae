package lessons

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/askiada/go-recordpipe/pkg/account"
	"github.com/askiada/go-recordpipe/pkg/collections"
	"github.com/askiada/go-recordpipe/pkg/funcs"
	"github.com/askiada/go-recordpipe/pkg/memo"
	"github.com/askiada/go-recordpipe/pkg/mlmodel"
	"github.com/askiada/go-recordpipe/pkg/pipeline"
	"github.com/askiada/go-recordpipe/pkg/record"
	"github.com/askiada/go-recordpipe/pkg/stages"
)

func init() {
	for _, t := range []Topic{
		setsTopic, mapsTopic, slicesTopic, functionsTopic, recursionTopic, higherOrderTopic,
		generatorsTopic, decoratorsTopic, oopBasicsTopic, oopIntermediateTopic, pipelinesTopic,
	} {
		register(t)
	}
}

var setsTopic = Topic{
	Name:  "sets",
	Title: "Sets",
	Run: func(_ context.Context, p *Printer) {
		a := collections.NewSet(1, 2, 3, 4)
		b := collections.NewSet(3, 4, 5)
		p.Printf("a = %v, b = %v", collections.Sorted(a), collections.Sorted(b))
		p.Printf("union: %v", collections.Sorted(a.Union(b)))
		p.Printf("intersection: %v", collections.Sorted(a.Intersection(b)))
		p.Printf("difference a - b: %v", collections.Sorted(a.Difference(b)))
		p.Printf("{3, 4} subset of a: %v", collections.NewSet(3, 4).IsSubset(a))
		p.Printf("dedupe [3 1 3 2 1]: %v", collections.Dedupe([]int{3, 1, 3, 2, 1}))
	},
	Questions: []QA{
		{
			Question: "What is a set and how does it differ from a slice?",
			Answer:   "A set holds unique values with constant time membership tests and no order. A slice keeps order and duplicates.",
		},
		{
			Question: "How do you remove duplicates from a slice?",
			Answer:   "Track the values already seen in a set and keep only the first occurrence, which also preserves the order.",
		},
	},
}

var mapsTopic = Topic{
	Name:  "dicts",
	Title: "Maps",
	Run: func(_ context.Context, p *Printer) {
		merged := collections.MergeMaps(
			map[string]int{"a": 1, "b": 2},
			map[string]int{"b": 3, "c": 4},
		)
		p.Printf("merge, right wins: a=%d b=%d c=%d", merged["a"], merged["b"], merged["c"])
		nested := map[string]any{
			"user":  map[string]any{"name": "ada", "address": map[string]any{"city": "London"}},
			"admin": false,
		}
		p.Printf("nested keys: %v", collections.NestedKeys(nested))
	},
	Questions: []QA{
		{
			Question: "How does a map differ from a slice?",
			Answer:   "A map looks values up by key in constant time, a slice by position. Map iteration order is not defined.",
		},
		{
			Question: "How do you merge two maps?",
			Answer:   "Copy the first into a new map then copy the second over it, so the right hand side wins on conflicts.",
		},
	},
}

var slicesTopic = Topic{
	Name:  "lists",
	Title: "Slices and immutable records",
	Run: func(_ context.Context, p *Printer) {
		scores := []int{70, 95, 82}
		p.Printf("sorted by value: %v", collections.SortBy(scores, func(v int) int { return v }))
		p.Printf("reversed: %v", collections.Reversed(scores))
		p.Printf("original untouched: %v", scores)
		point := record.NewMap(record.F("x", record.NewNumber(1)), record.F("y", record.NewNumber(2)))
		moved := point.With("x", record.NewNumber(10))
		p.Printf("record %s, updated copy %s", point, moved)
	},
	Questions: []QA{
		{
			Question: "When would you use an immutable value over a slice?",
			Answer:   "For fixed data shared between stages, such as a record: nothing can modify it behind the back of its readers.",
		},
		{
			Question: "How do you update an immutable record?",
			Answer:   "Build a new one. Record.With returns a copy with the field replaced.",
		},
	},
}

var functionsTopic = Topic{
	Name:  "functions",
	Title: "Functions and closures",
	Run: func(_ context.Context, p *Printer) {
		double := funcs.Multiplier(2)
		p.Printf("double(21) = %d", double(21))
		count := funcs.Counter()
		count()
		count()
		p.Printf("counter after 3 calls: %d", count())
		p.Printf("sum of 1..5 = %d", funcs.SumOf(1, 2, 3, 4, 5))
		if mean, ok := funcs.MeanOf(1.0, 2.0, 6.0); ok {
			p.Printf("mean of 1, 2, 6 = %.2f", mean)
		}
	},
	Questions: []QA{
		{
			Question: "What is a closure?",
			Answer:   "A function value capturing variables of its enclosing scope, such as the running count of Counter.",
		},
		{
			Question: "When would you use a variadic function?",
			Answer:   "When the number of arguments is not known in advance, such as a sum over any number of values.",
		},
	},
}

var recursionTopic = Topic{
	Name:  "recursion",
	Title: "Recursion",
	Run: func(_ context.Context, p *Printer) {
		n, _ := funcs.Factorial(5)
		p.Printf("factorial(5) = %d", n)
		_, err := funcs.Factorial(-1)
		p.Printf("factorial(-1) fails: %v", err)
		p.Printf("fibonacci(10) = %d", funcs.Fibonacci(10))
		fib := memo.Fibonacci()
		p.Printf("memoised fibonacci(80) = %d", fib.Get(80))
		hits, misses := fib.Stats()
		p.Printf("cache: %d values, %d hits, %d misses", fib.Len(), hits, misses)
	},
	Questions: []QA{
		{
			Question: "What is recursion?",
			Answer:   "A function calling itself on a smaller input until it reaches a base case.",
		},
		{
			Question: "How can recursive functions be optimised?",
			Answer:   "Memoise results so every sub-problem is computed once, or rewrite the recursion as a loop.",
		},
	},
}

var higherOrderTopic = Topic{
	Name:  "higher-order",
	Title: "Higher-order functions",
	Run: func(_ context.Context, p *Printer) {
		clean := funcs.Compose(strings.TrimSpace, strings.ToLower)
		p.Printf("compose(trim, lower)(%q) = %q", "  Hello ", clean("  Hello "))
		p.Printf("apply all: %v", funcs.ApplyAll([]int{1, 2, 3}, funcs.Multiplier(10), func(v int) int { return v + 1 }))
	},
	Questions: []QA{
		{
			Question: "What is a higher-order function?",
			Answer:   "A function taking or returning functions, such as Compose.",
		},
		{
			Question: "How are they used in a data pipeline?",
			Answer:   "Every stage is a function; the runner is a higher-order function applying them in order.",
		},
	},
}

var generatorsTopic = Topic{
	Name:  "generators",
	Title: "Iterators",
	Run: func(_ context.Context, p *Printer) {
		p.Printf("first 10 fibonacci numbers: %v", funcs.Take(funcs.FibonacciSeq(), 10))
		p.Printf("squares below 5: %v", funcs.Take(funcs.Squares(5), 5))
		halves := funcs.MapSeq(funcs.Squares(4), func(v int) float64 { return float64(v) / 2 })
		p.Printf("halved squares: %v", funcs.Take(halves, 4))
	},
	Questions: []QA{
		{
			Question: "How does an iterator differ from a slice?",
			Answer:   "It produces values on demand, so it can be infinite and never holds every value in memory.",
		},
		{
			Question: "Can you traverse a lazy stream twice?",
			Answer:   "No. A lazy stream is consumed by traversal; collect it first if it is needed twice.",
		},
	},
}

var decoratorsTopic = Topic{
	Name:  "decorators",
	Title: "Function wrappers",
	Run: func(_ context.Context, p *Printer) {
		var elapsed time.Duration
		square := funcs.Timed("square", func(_ string, d time.Duration) { elapsed = d }, func(v int) int { return v * v })
		square = funcs.Logged(zerolog.Nop(), "square", square)
		p.Printf("square(9) = %d, timed: %v", square(9), elapsed >= 0)
		sum := funcs.ValidatePositive(funcs.SumOf[int])
		total, err := sum(1, 2, 3)
		p.Printf("validated sum(1, 2, 3) = %d, error: %v", total, err)
		_, err = sum(1, -2)
		p.Printf("validated sum(1, -2) fails: %v", err)
	},
	Questions: []QA{
		{
			Question: "What is a function wrapper?",
			Answer:   "A function taking a function and returning one with the same signature and extra behaviour, such as timing.",
		},
		{
			Question: "How do you stack several wrappers?",
			Answer:   "Wrap the result of one wrapper with the next; the outermost runs first.",
		},
	},
}

var oopBasicsTopic = Topic{
	Name:  "oop-basics",
	Title: "Types, methods and encapsulation",
	Run: func(_ context.Context, p *Printer) {
		acc, _ := account.NewBankAccount(100)
		_ = acc.Deposit(50)
		p.Printf("balance after deposit: %d", acc.Balance())
		p.Printf("withdraw 500: %v", acc.Withdraw(500))
		p.Printf("deposit -1: %v", acc.Deposit(-1))
		user, err := account.NewUserWithCost("ada", "s3cret", 4)
		if err != nil {
			p.Printf("user: %v", err)
			return
		}
		p.Printf("%s authenticates with the right password: %v", user.Username(), user.Authenticate("s3cret"))
		p.Printf("%s authenticates with a wrong password: %v", user.Username(), user.Authenticate("guess"))
	},
	Questions: []QA{
		{
			Question: "What is encapsulation?",
			Answer:   "Keeping state unexported so it only changes through methods enforcing its invariants, such as a non negative balance.",
		},
		{
			Question: "Why return errors instead of printing them?",
			Answer:   "The caller decides how to react, and tests can assert on them.",
		},
	},
}

var oopIntermediateTopic = Topic{
	Name:  "oop-intermediate",
	Title: "Interfaces, embedding and validation",
	Run: func(_ context.Context, p *Printer) {
		x := []float64{1, 2, 3}
		models := []mlmodel.Model{mlmodel.NewLinearRegression(), mlmodel.NewDecisionTree()}
		for _, m := range models {
			_ = m.Fit(x, x)
			out, _ := m.Predict(x)
			p.Printf("%s predicts %v", m.Name(), out)
		}
		base := mlmodel.NewBase("base")
		p.Printf("min-max preprocessing of [10 20 30]: %v", base.Preprocess([]float64{10, 20, 30}))
		_, err := mlmodel.NewHyperparameters(2, 10)
		p.Printf("learning rate 2: %v", err)
	},
	Questions: []QA{
		{
			Question: "What is polymorphism?",
			Answer:   "Using values of different types through one interface, such as Model.",
		},
		{
			Question: "How does embedding help?",
			Answer:   "An embedded Base shares fitting and preprocessing between models, which only add Predict.",
		},
	},
}

var pipelinesTopic = Topic{
	Name:  "pipelines",
	Title: "Record pipelines",
	Run: func(ctx context.Context, p *Printer) {
		runner := pipeline.New([]stages.Stage{stages.Trim(), stages.Lowercase(), stages.Dedupe()})
		res, err := runner.Run(ctx, pipeline.FromCollection(record.Texts(" Apple", "BANANA", "apple ")))
		if err != nil {
			p.Printf("run failed: %v", err)
			return
		}
		for _, r := range res.Records {
			p.Printf("  %s", r)
		}
		total, _ := pipeline.Reduce(ctx, pipeline.FromCollection([]int{100, 200, 300}), pipeline.Sum[int], 0)
		p.Printf("reduce(+, 0) over [100 200 300] = %d", total)
	},
	Questions: []QA{
		{
			Question: "Why keep stages pure?",
			Answer:   "A pure stage gives the same output for the same input, so pipelines compose and runs can be repeated.",
		},
		{
			Question: "What happens to a malformed record?",
			Answer:   "Under the abort policy the run fails with its position; under the skip policy it is dropped and counted.",
		},
	},
}
