// Package operator collects the human decisions a run suspends on: idea
// choice, draft review, and promotion approval. The engine never blocks
// on input; the driver calls a Provider between walks.
package operator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"amplify/pipeline"
)

// Provider supplies operator decisions. Implementations may be
// interactive or scripted.
type Provider interface {
	// ChooseIdea picks one of the presented ideas, returning the
	// 1-based index.
	ChooseIdea(ideas []pipeline.ContentIdea) (int, error)

	// Review inspects the drafted post and returns the follow-up
	// action.
	Review(s pipeline.State) (pipeline.Action, error)

	// Approve returns the go/no-go decision for a promotional post,
	// with optional feedback on rejection.
	Approve(s pipeline.State) (bool, string, error)

	// CollectProduct gathers the product record that seeds a
	// promotion run.
	CollectProduct() (pipeline.ProductInfo, error)

	// CollectUploads gathers paths of operator-supplied images.
	CollectUploads() ([]pipeline.UploadedImage, error)
}

// Console is a terminal-backed Provider.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole wires a Console to the given reader and writer, typically
// stdin and stdout.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (c *Console) ChooseIdea(ideas []pipeline.ContentIdea) (int, error) {
	fmt.Fprintln(c.out, "\nGenerated content ideas:")
	for i, idea := range ideas {
		fmt.Fprintf(c.out, "\n%d. %s\n", i+1, idea.Title)
		fmt.Fprintf(c.out, "   %s\n", idea.Description)
		if idea.TargetAudience != "" {
			fmt.Fprintf(c.out, "   Audience: %s\n", idea.TargetAudience)
		}
		for _, kp := range idea.KeyPoints {
			fmt.Fprintf(c.out, "   - %s\n", kp)
		}
	}

	for {
		fmt.Fprintf(c.out, "\nChoose an idea (1-%d): ", len(ideas))
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(ideas) {
			return n, nil
		}
		fmt.Fprintf(c.out, "Please enter a number between 1 and %d.\n", len(ideas))
	}
}

func (c *Console) Review(s pipeline.State) (pipeline.Action, error) {
	c.showPost(s)

	for {
		fmt.Fprint(c.out, "\nPost this content, or regenerate? [post/regenerate]: ")
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "post", "p":
			return pipeline.ActionPost, nil
		case "regenerate", "r":
			return pipeline.ActionRegenerate, nil
		}
		fmt.Fprintln(c.out, "Please answer 'post' or 'regenerate'.")
	}
}

func (c *Console) Approve(s pipeline.State) (bool, string, error) {
	c.showPost(s)

	for {
		fmt.Fprint(c.out, "\nApprove this post? [y/n]: ")
		line, err := c.readLine()
		if err != nil {
			return false, "", err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, "", nil
		case "n", "no":
			fmt.Fprint(c.out, "Feedback (optional): ")
			feedback, err := c.readLine()
			if err != nil {
				return false, "", err
			}
			return false, strings.TrimSpace(feedback), nil
		}
		fmt.Fprintln(c.out, "Please answer 'y' or 'n'.")
	}
}

func (c *Console) CollectProduct() (pipeline.ProductInfo, error) {
	var p pipeline.ProductInfo

	fmt.Fprint(c.out, "Product name: ")
	name, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.Name = strings.TrimSpace(name)

	fmt.Fprint(c.out, "Product description: ")
	desc, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.Description = strings.TrimSpace(desc)

	fmt.Fprint(c.out, "Key features (comma-separated): ")
	features, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.Features = splitList(features)

	fmt.Fprint(c.out, "Benefits (comma-separated): ")
	benefits, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.Benefits = splitList(benefits)

	fmt.Fprint(c.out, "Target audience: ")
	audience, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.TargetAudience = strings.TrimSpace(audience)

	fmt.Fprint(c.out, "Call to action: ")
	cta, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.CallToAction = strings.TrimSpace(cta)

	fmt.Fprint(c.out, "Website (optional): ")
	site, err := c.readLine()
	if err != nil {
		return p, err
	}
	p.Website = strings.TrimSpace(site)

	return p, nil
}

func splitList(line string) []string {
	var items []string
	for _, part := range strings.Split(line, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func (c *Console) CollectUploads() ([]pipeline.UploadedImage, error) {
	fmt.Fprintln(c.out, "Image paths, one per line (empty line to finish):")

	var uploads []pipeline.UploadedImage
	for {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		path := strings.TrimSpace(line)
		if path == "" {
			return uploads, nil
		}
		uploads = append(uploads, pipeline.UploadedImage{Path: path})
	}
}

func (c *Console) showPost(s pipeline.State) {
	if s.Post == nil {
		return
	}
	fmt.Fprintf(c.out, "\n=== %s ===\n\n", s.Post.Title)
	fmt.Fprintln(c.out, s.Post.Content)
	if len(s.Post.Hashtags) > 0 {
		fmt.Fprintf(c.out, "\n%s\n", strings.Join(s.Post.Hashtags, " "))
	}
	if s.Post.CallToAction != "" {
		fmt.Fprintf(c.out, "\n%s\n", s.Post.CallToAction)
	}
	if s.Image != nil {
		fmt.Fprintf(c.out, "\nImage: %s\n", s.Image.Path)
	}
	if s.DocumentPath != "" {
		fmt.Fprintf(c.out, "Document: %s\n", s.DocumentPath)
	}
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}
