package docgen

const introPrompt = `Write a short introduction (two or three sentences) for a document generated from the following video. Describe what the video covers and who it is for. Return only the introduction text, with no heading.

Title: %s
Duration: %s
Uploader: %s
URL: %s`

const polishPrompt = `The following is a raw speech transcript of a video. Each line is prefixed with a [MM:SS] timestamp marking when the sentence was spoken.

Rewrite it as a well-structured Markdown document:
- Fix transcription mistakes, fillers, and repeated words.
- Organize the content into sections with headings where the topic shifts.
- Preserve the meaning and the order of the original; do not summarize away details.
- Remove the timestamps from the rewritten text.
- Return only the Markdown document, with no commentary.

Transcript:
%s`

const markersPrompt = `You are given the timestamped transcript of a video and a polished Markdown document written from it. Choose the moments where a screenshot from the video would help the reader, and insert an image reference at each such point in the document.

Use exactly this form for every image, where MM:SS is a timestamp taken from the transcript:

![short description](images/MM:SS.jpg)

Rules:
- Place each image on its own line, near the text it illustrates.
- Only use timestamps that appear in the transcript.
- Do not change the document text in any other way.
- Return only the updated Markdown document, with no commentary.

Transcript:
%s

Document:
%s`
